package tariffs

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// Input carries the writable tariff fields, already decoded.
type Input struct {
	ClientID     int64
	ItemID       int64
	UnitID       int64
	Price        decimal.Decimal
	Minimum      *decimal.Decimal
	IncrementPct decimal.Decimal
	ValidFrom    dbtypes.Date
	ValidTo      *dbtypes.Date
}

// Validate checks the invariants shared by flat and ranged tariffs and returns
// the offending fields keyed by their JSON name.
func (in Input) Validate() map[string]string {
	details := map[string]string{}
	if in.ClientID <= 0 {
		details["client_id"] = "is required"
	}
	if in.ItemID <= 0 {
		details["item_id"] = "is required"
	}
	if in.UnitID <= 0 {
		details["unit_id"] = "is required"
	}
	if in.Price.IsNegative() {
		details["price"] = "must not be negative"
	}
	if in.Minimum != nil && in.Minimum.IsNegative() {
		details["minimum"] = "must not be negative"
	}
	if in.ValidFrom.IsZero() {
		details["valid_from"] = "is required"
	}
	if in.ValidTo != nil && in.ValidFrom.After(*in.ValidTo) {
		details["valid_to"] = "must not be before valid_from"
	}
	return details
}

func (in Input) validate() error {
	if details := in.Validate(); len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func (in Input) toModel() models.Tariff {
	return models.Tariff{
		ClientID:     in.ClientID,
		ItemID:       in.ItemID,
		UnitID:       in.UnitID,
		Price:        in.Price.Round(2),
		Minimum:      roundPtr(in.Minimum),
		IncrementPct: in.IncrementPct.Round(2),
		ValidFrom:    in.ValidFrom,
		ValidTo:      in.ValidTo,
	}
}

func roundPtr(value *decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	rounded := value.Round(2)
	return &rounded
}

// View is a tariff joined with the names of what it references.
type View struct {
	ID           int64         `json:"id"`
	ClientID     int64         `json:"client_id"`
	ClientName   string        `json:"client_name"`
	CategoryID   int64         `json:"category_id"`
	CategoryName string        `json:"category_name"`
	ItemID       int64         `json:"item_id"`
	ItemName     string        `json:"item_name"`
	UnitID       int64         `json:"unit_id"`
	UnitName     string        `json:"unit_name"`
	Price        float64       `json:"price"`
	Minimum      *float64      `json:"minimum"`
	IncrementPct float64       `json:"increment_pct"`
	ValidFrom    dbtypes.Date  `json:"valid_from"`
	ValidTo      *dbtypes.Date `json:"valid_to"`
}

// Row is the scan target of the joined listing query.
type Row struct {
	models.Tariff `gorm:"embedded"`
	ClientName    string
	CategoryID    int64
	CategoryName  string
	ItemName      string
	UnitName      string
}

func (r Row) View() View {
	return View{
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
		Minimum:      FloatPtr(r.Minimum),
		IncrementPct: r.IncrementPct.InexactFloat64(),
		ValidFrom:    r.ValidFrom,
		ValidTo:      r.ValidTo,
	}
}

// FloatPtr renders an optional decimal as an optional JSON number.
func FloatPtr(value *decimal.Decimal) *float64 {
	if value == nil {
		return nil
	}
	f := value.InexactFloat64()
	return &f
}

// NameColumns selects the joined names shared by every tariff listing.
const NameColumns = "COALESCE(c.name, '') AS client_name, COALESCE(i.category_id, 0) AS category_id, " +
	"COALESCE(cat.name, '') AS category_name, COALESCE(i.name, '') AS item_name, COALESCE(u.name, '') AS unit_name"

// JoinNames adds the reference joins for a tariff-shaped table aliased as alias.
func JoinNames(query *gorm.DB, alias string) *gorm.DB {
	return query.
		Joins("LEFT JOIN clients c ON c.id = " + alias + ".client_id").
		Joins("LEFT JOIN items i ON i.id = " + alias + ".item_id").
		Joins("LEFT JOIN categories cat ON cat.id = i.category_id").
		Joins("LEFT JOIN units u ON u.id = " + alias + ".unit_id")
}
