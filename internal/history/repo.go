package history

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
)

// Repository reads and appends tariff snapshots. It has no update or delete
// path: history rows are immutable.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Append writes one snapshot. The bulk increase calls it inside its
// transaction through WithTx.
func (r *Repository) Append(ctx context.Context, row *models.HistoricalTariff) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// List returns snapshots matching the filter, newest movement first.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Row, error) {
	query := r.db.WithContext(ctx).
		Table("historical_tariffs AS h").
		Select("h.*, " + tariffs.NameColumns)
	query = tariffs.JoinNames(query, "h")
	query = filter.Filter.Apply(query, "h")
	if filter.MovedOn != nil {
		start := filter.MovedOn.Time
		query = query.Where("h.moved_at >= ? AND h.moved_at < ?", start, start.Add(24*time.Hour))
	}

	var rows []Row
	if err := query.Order("h.moved_at DESC").Order("h.history_id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
