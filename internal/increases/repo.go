package increases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tariffdesk/tariffdesk-backend/internal/history"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
)

type repository struct {
	db      *gorm.DB
	history *history.Repository
}

// NewRepository builds the bulk increase repository bound to the provided DB.
// Snapshots go through the history repository so both share the transaction.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, history: history.NewRepository(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, history: r.history.WithTx(tx)}
}

func (r *repository) LockMatching(ctx context.Context, sel Selection) ([]models.Tariff, error) {
	query := r.db.WithContext(ctx).Model(&models.Tariff{})

	switch sel.Criterion {
	case enums.IncreaseCriterionClient:
		query = query.Where("tariffs.client_id = ?", sel.SelectionID)
	case enums.IncreaseCriterionItem:
		query = query.Where("tariffs.item_id = ?", sel.SelectionID)
	case enums.IncreaseCriterionUnit:
		query = query.Where("tariffs.unit_id = ?", sel.SelectionID)
	case enums.IncreaseCriterionCategory:
		query = query.Where("tariffs.item_id IN (?)",
			r.db.Model(&models.Item{}).Select("id").Where("category_id = ?", sel.SelectionID))
	default:
		return nil, fmt.Errorf("unsupported criterion %q", sel.Criterion)
	}
	if sel.ClientID != nil {
		query = query.Where("tariffs.client_id = ?", *sel.ClientID)
	}
	if db.IsPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []models.Tariff
	if err := query.Order("tariffs.id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) AppendHistory(ctx context.Context, row *models.HistoricalTariff) error {
	return r.history.Append(ctx, row)
}

func (r *repository) ApplyIncrease(ctx context.Context, id int64, price, pct decimal.Decimal, from dbtypes.Date, to *dbtypes.Date) error {
	res := r.db.WithContext(ctx).
		Model(&models.Tariff{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"price":         price,
			"increment_pct": pct,
			"valid_from":    from,
			"valid_to":      to,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("tariff %d: expected 1 row updated, got %d", id, res.RowsAffected)
	}
	return nil
}
