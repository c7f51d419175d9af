package increases

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
)

// Repository is the transactional surface a bulk increase needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// LockMatching returns the targeted tariffs ordered by id, locked for
	// update where the database supports it.
	LockMatching(ctx context.Context, sel Selection) ([]models.Tariff, error)
	AppendHistory(ctx context.Context, row *models.HistoricalTariff) error
	ApplyIncrease(ctx context.Context, id int64, price, pct decimal.Decimal, from dbtypes.Date, to *dbtypes.Date) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type increaseMetrics interface {
	ObserveIncrease(criterion string, rows int64, err error)
}
