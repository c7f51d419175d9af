package models

import (
	"github.com/shopspring/decimal"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
)

// Tariff is the price agreed with a client for an item in a unit over a
// validity window. ValidTo nil means open ended.
type Tariff struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement"`
	ClientID     int64            `gorm:"column:client_id;not null;index"`
	ItemID       int64            `gorm:"column:item_id;not null;index"`
	UnitID       int64            `gorm:"column:unit_id;not null;index"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	Minimum      *decimal.Decimal `gorm:"column:minimum;type:numeric(12,2)"`
	IncrementPct decimal.Decimal  `gorm:"column:increment_pct;type:numeric(7,2);not null;default:0"`
	ValidFrom    dbtypes.Date     `gorm:"column:valid_from;not null"`
	ValidTo      *dbtypes.Date    `gorm:"column:valid_to"`
}

// RangedTariff is a tariff that applies only between two quantities. A zero
// ToQty means the range has no upper bound.
type RangedTariff struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement"`
	ClientID     int64            `gorm:"column:client_id;not null;index"`
	ItemID       int64            `gorm:"column:item_id;not null;index"`
	UnitID       int64            `gorm:"column:unit_id;not null;index"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	Minimum      *decimal.Decimal `gorm:"column:minimum;type:numeric(12,2)"`
	IncrementPct decimal.Decimal  `gorm:"column:increment_pct;type:numeric(7,2);not null;default:0"`
	ValidFrom    dbtypes.Date     `gorm:"column:valid_from;not null"`
	ValidTo      *dbtypes.Date    `gorm:"column:valid_to"`
	FromQty      decimal.Decimal  `gorm:"column:from_qty;type:numeric(12,2);not null;default:0"`
	ToQty        decimal.Decimal  `gorm:"column:to_qty;type:numeric(12,2);not null;default:0"`
}
