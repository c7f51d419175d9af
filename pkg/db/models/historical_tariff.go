package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
)

// HistoricalTariff is an immutable snapshot of a tariff row taken right before
// a bulk increase rewrote it.
type HistoricalTariff struct {
	HistoryID    int64               `gorm:"column:history_id;primaryKey;autoIncrement"`
	TariffID     int64               `gorm:"column:tariff_id;not null;index"`
	ClientID     int64               `gorm:"column:client_id;not null"`
	ItemID       int64               `gorm:"column:item_id;not null"`
	UnitID       int64               `gorm:"column:unit_id;not null"`
	Price        decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Minimum      *decimal.Decimal    `gorm:"column:minimum;type:numeric(12,2)"`
	IncrementPct decimal.Decimal     `gorm:"column:increment_pct;type:numeric(7,2);not null;default:0"`
	ValidFrom    dbtypes.Date        `gorm:"column:valid_from;not null"`
	ValidTo      *dbtypes.Date       `gorm:"column:valid_to"`
	UserName     string              `gorm:"column:user_name;not null"`
	MovedAt      time.Time           `gorm:"column:moved_at;not null"`
	Action       enums.HistoryAction `gorm:"column:action;type:varchar(16);not null"`
}

// SnapshotTariff copies t verbatim into a history row.
func SnapshotTariff(t Tariff, user string, movedAt time.Time, action enums.HistoryAction) HistoricalTariff {
	return HistoricalTariff{
		TariffID:     t.ID,
		ClientID:     t.ClientID,
		ItemID:       t.ItemID,
		UnitID:       t.UnitID,
		Price:        t.Price,
		Minimum:      t.Minimum,
		IncrementPct: t.IncrementPct,
		ValidFrom:    t.ValidFrom,
		ValidTo:      t.ValidTo,
		UserName:     user,
		MovedAt:      movedAt.UTC(),
		Action:       action,
	}
}
