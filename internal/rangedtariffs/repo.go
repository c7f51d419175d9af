package rangedtariffs

import (
	"context"

	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
)

// Repository exposes ranged tariff persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("ranged_tariffs AS rt").
		Select("rt.*, " + tariffs.NameColumns)
	return tariffs.JoinNames(query, "rt")
}

// List returns ranged tariffs matching the filter, ordered by id.
func (r *Repository) List(ctx context.Context, filter tariffs.Filter) ([]Row, error) {
	var rows []Row
	err := filter.Apply(r.joined(ctx), "rt").Order("rt.id ASC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*Row, error) {
	var rows []Row
	if err := r.joined(ctx).Where("rt.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) Create(ctx context.Context, tariff *models.RangedTariff) error {
	return r.db.WithContext(ctx).Create(tariff).Error
}

func (r *Repository) Update(ctx context.Context, id int64, tariff *models.RangedTariff) error {
	res := r.db.WithContext(ctx).
		Model(&models.RangedTariff{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"client_id":     tariff.ClientID,
			"item_id":       tariff.ItemID,
			"unit_id":       tariff.UnitID,
			"price":         tariff.Price,
			"minimum":       tariff.Minimum,
			"increment_pct": tariff.IncrementPct,
			"valid_from":    tariff.ValidFrom,
			"valid_to":      tariff.ValidTo,
			"from_qty":      tariff.FromQty,
			"to_qty":        tariff.ToQty,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RangedTariff{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
