package history

import (
	"time"

	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
)

// Filter adds the movement day to the regular tariff filters.
type Filter struct {
	tariffs.Filter
	MovedOn *dbtypes.Date
}

type View struct {
	HistoryID    int64               `json:"history_id"`
	TariffID     int64               `json:"tariff_id"`
	ClientID     int64               `json:"client_id"`
	ClientName   string              `json:"client_name"`
	CategoryID   int64               `json:"category_id"`
	CategoryName string              `json:"category_name"`
	ItemID       int64               `json:"item_id"`
	ItemName     string              `json:"item_name"`
	UnitID       int64               `json:"unit_id"`
	UnitName     string              `json:"unit_name"`
	Price        float64             `json:"price"`
	Minimum      *float64            `json:"minimum"`
	IncrementPct float64             `json:"increment_pct"`
	ValidFrom    dbtypes.Date        `json:"valid_from"`
	ValidTo      *dbtypes.Date       `json:"valid_to"`
	UserName     string              `json:"user"`
	MovedAt      time.Time           `json:"moved_at"`
	Action       enums.HistoryAction `json:"action"`
}

type Row struct {
	models.HistoricalTariff `gorm:"embedded"`
	ClientName              string
	CategoryID              int64
	CategoryName            string
	ItemName                string
	UnitName                string
}

func (r Row) View() View {
	return View{
		HistoryID:    r.HistoryID,
		TariffID:     r.TariffID,
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
		UserName:     r.UserName,
		MovedAt:      r.MovedAt.UTC(),
		Action:       r.Action,
	}
}
