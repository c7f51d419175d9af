package enums

import (
	"fmt"
	"strings"
)

// IncreaseCriterion selects which tariff column a bulk increase matches on.
type IncreaseCriterion string

const (
	IncreaseCriterionClient   IncreaseCriterion = "client"
	IncreaseCriterionItem     IncreaseCriterion = "item"
	IncreaseCriterionUnit     IncreaseCriterion = "unit"
	IncreaseCriterionCategory IncreaseCriterion = "category"
)

var validIncreaseCriteria = []IncreaseCriterion{
	IncreaseCriterionClient,
	IncreaseCriterionItem,
	IncreaseCriterionUnit,
	IncreaseCriterionCategory,
}

// String implements fmt.Stringer.
func (c IncreaseCriterion) String() string {
	return string(c)
}

// IsValid reports whether the value is one of the supported criteria.
func (c IncreaseCriterion) IsValid() bool {
	for _, candidate := range validIncreaseCriteria {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseIncreaseCriterion converts raw input into IncreaseCriterion. Matching
// ignores case and surrounding whitespace.
func ParseIncreaseCriterion(value string) (IncreaseCriterion, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validIncreaseCriteria {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid increase criterion %q", value)
}

// IncreaseCriterionValues lists the accepted criteria, in display order.
func IncreaseCriterionValues() []string {
	out := make([]string, 0, len(validIncreaseCriteria))
	for _, c := range validIncreaseCriteria {
		out = append(out, string(c))
	}
	return out
}
