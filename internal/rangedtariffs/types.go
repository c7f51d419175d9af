package rangedtariffs

import (
	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// Input is a flat tariff input plus the quantity range it applies to.
type Input struct {
	tariffs.Input
	FromQty decimal.Decimal
	ToQty   decimal.Decimal
}

func (in Input) validate() error {
	details := in.Input.Validate()
	if in.FromQty.IsNegative() {
		details["from_qty"] = "must not be negative"
	}
	if in.ToQty.IsNegative() {
		details["to_qty"] = "must not be negative"
	}
	if in.ToQty.IsPositive() && in.FromQty.GreaterThan(in.ToQty) {
		details["to_qty"] = "must not be below from_qty"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func (in Input) toModel() models.RangedTariff {
	var minimum *decimal.Decimal
	if in.Minimum != nil {
		rounded := in.Minimum.Round(2)
		minimum = &rounded
	}
	return models.RangedTariff{
		ClientID:     in.ClientID,
		ItemID:       in.ItemID,
		UnitID:       in.UnitID,
		Price:        in.Price.Round(2),
		Minimum:      minimum,
		IncrementPct: in.IncrementPct.Round(2),
		ValidFrom:    in.ValidFrom,
		ValidTo:      in.ValidTo,
		FromQty:      in.FromQty.Round(2),
		ToQty:        in.ToQty.Round(2),
	}
}

type View struct {
	tariffs.View
	FromQty float64 `json:"from_qty"`
	ToQty   float64 `json:"to_qty"`
}

type Row struct {
	models.RangedTariff `gorm:"embedded"`
	ClientName          string
	CategoryID          int64
	CategoryName        string
	ItemName            string
	UnitName            string
}

func (r Row) View() View {
	return View{
		View: tariffs.View{
			ID:           r.ID,
			ClientID:     r.ClientID,
			ClientName:   r.ClientName,
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			ItemID:       r.ItemID,
			ItemName:     r.ItemName,
			UnitID:       r.UnitID,
			UnitName:     r.UnitName,
			Price:        r.Price.InexactFloat64(),
			Minimum:      tariffs.FloatPtr(r.Minimum),
			IncrementPct: r.IncrementPct.InexactFloat64(),
			ValidFrom:    r.ValidFrom,
			ValidTo:      r.ValidTo,
		},
		FromQty: r.FromQty.InexactFloat64(),
		ToQty:   r.ToQty.InexactFloat64(),
	}
}
