package models

import (
	"github.com/shopspring/decimal"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
)

// PrepValue is the per kilo preparation charge agreed with a client.
type PrepValue struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ClientID     int64           `gorm:"column:client_id;not null;index"`
	ValidFrom    dbtypes.Date    `gorm:"column:valid_from;not null"`
	ValidTo      *dbtypes.Date   `gorm:"column:valid_to"`
	ValuePerKilo decimal.Decimal `gorm:"column:value_per_kilo;type:numeric(12,4);not null"`
}
