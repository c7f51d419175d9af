package prepvalues

import (
	"context"

	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every prep value with its client name, newest window first.
func (r *Repository) List(ctx context.Context, clientID *int64) ([]Row, error) {
	query := r.db.WithContext(ctx).
		Table("prep_values AS p").
		Select("p.*, COALESCE(c.name, '') AS client_name").
		Joins("LEFT JOIN clients c ON c.id = p.client_id")
	if clientID != nil {
		query = query.Where("p.client_id = ?", *clientID)
	}
	var rows []Row
	if err := query.Order("p.valid_from DESC").Order("p.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, row *models.PrepValue) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) ClientName(ctx context.Context, clientID int64) (string, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ?", clientID).Take(&client).Error; err != nil {
		return "", err
	}
	return client.Name, nil
}
