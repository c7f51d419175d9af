package tariffs

import (
	"context"

	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
)

// Repository exposes flat tariff persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tariff repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("tariffs AS t").
		Select("t.*, " + NameColumns)
	return JoinNames(query, "t")
}

// List returns tariffs matching the filter, ordered by id.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Row, error) {
	var rows []Row
	err := filter.Apply(r.joined(ctx), "t").Order("t.id ASC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns gorm.ErrRecordNotFound when the tariff does not exist.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Row, error) {
	var rows []Row
	if err := r.joined(ctx).Where("t.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) Create(ctx context.Context, tariff *models.Tariff) error {
	return r.db.WithContext(ctx).Create(tariff).Error
}

// Update replaces every writable column of the tariff.
func (r *Repository) Update(ctx context.Context, id int64, tariff *models.Tariff) error {
	res := r.db.WithContext(ctx).
		Model(&models.Tariff{}).
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
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tariff{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
