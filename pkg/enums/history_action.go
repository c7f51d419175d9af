package enums

import "fmt"

// HistoryAction records why a tariff snapshot was taken.
type HistoryAction string

const (
	HistoryActionIncrease HistoryAction = "increase"
)

var validHistoryActions = []HistoryAction{
	HistoryActionIncrease,
}

func (a HistoryAction) String() string {
	return string(a)
}

func (a HistoryAction) IsValid() bool {
	for _, candidate := range validHistoryActions {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseHistoryAction(value string) (HistoryAction, error) {
	for _, candidate := range validHistoryActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid history action %q", value)
}
