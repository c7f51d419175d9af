package increases

import (
	"strings"

	"github.com/shopspring/decimal"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// Request is a decoded bulk increase order.
type Request struct {
	Criterion     string
	SelectionID   int64
	IncludeClient bool
	ClientID      int64
	DateFrom      *dbtypes.Date
	DateTo        *dbtypes.Date
	Percentage    *decimal.Decimal
	User          string
}

// Selection is a validated Request, ready to hit the database.
type Selection struct {
	Criterion   enums.IncreaseCriterion
	SelectionID int64
	// ClientID is the secondary client filter; nil when not requested.
	ClientID   *int64
	DateFrom   *dbtypes.Date
	DateTo     *dbtypes.Date
	Percentage decimal.Decimal
	User       string
}

// maxPercentage is the first value that no longer fits increment_pct
// numeric(7,2) once rounded to cents.
var maxPercentage = decimal.NewFromInt(100000)

// Result reports how many tariff rows were rewritten.
type Result struct {
	UpdatedCount int64 `json:"updated_count"`
}

// Validate normalizes the request. It never touches the database.
func (r Request) Validate() (Selection, error) {
	details := map[string]string{}

	criterion, err := enums.ParseIncreaseCriterion(r.Criterion)
	if err != nil {
		details["criterion"] = "must be one of " + strings.Join(enums.IncreaseCriterionValues(), ", ")
	}
	if r.SelectionID <= 0 {
		details["selection_id"] = "must be a positive integer"
	}
	if r.Percentage == nil {
		details["percentage"] = "is required"
	} else if r.Percentage.LessThanOrEqual(decimal.NewFromInt(-100)) {
		details["percentage"] = "must be greater than -100"
	} else if r.Percentage.Round(2).GreaterThanOrEqual(maxPercentage) {
		details["percentage"] = "must be less than 100000"
	}
	user := strings.TrimSpace(r.User)
	if user == "" {
		details["user"] = "is required"
	}
	if r.IncludeClient && r.ClientID <= 0 {
		details["client_id"] = "is required when include_client is set"
	}
	if r.DateFrom != nil && r.DateTo != nil && r.DateFrom.After(*r.DateTo) {
		details["date_to"] = "must not be before date_from"
	}
	if len(details) > 0 {
		return Selection{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	sel := Selection{
		Criterion:   criterion,
		SelectionID: r.SelectionID,
		DateFrom:    r.DateFrom,
		DateTo:      r.DateTo,
		Percentage:  *r.Percentage,
		User:        user,
	}
	if r.IncludeClient {
		clientID := r.ClientID
		sel.ClientID = &clientID
	}
	return sel, nil
}

// IncreasedPrice applies pct percent to price, rounded half away from zero
// to cents.
func IncreasedPrice(price, pct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))
	return price.Mul(factor).Round(2)
}
