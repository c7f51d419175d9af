package expiring

import (
	"context"

	"gorm.io/gorm"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ClientsExpiringBy returns each client owning at least one tariff whose
// valid_to falls on or before cutoff, already expired ones included.
func (r *Repository) ClientsExpiringBy(ctx context.Context, cutoff dbtypes.Date) ([]Client, error) {
	var rows []Client
	err := r.db.WithContext(ctx).
		Table("clients AS c").
		Select("c.id, c.name, MIN(t.valid_to) AS first_expiry, COUNT(t.id) AS tariff_count").
		Joins("JOIN tariffs t ON t.client_id = c.id").
		Where("t.valid_to IS NOT NULL AND t.valid_to <= ?", cutoff).
		Group("c.id, c.name").
		Order("c.name ASC").
		Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
