package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
)

// Repository persists one reference table keyed by an int64 id.
type Repository[T any] struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *Repository[models.Client] {
	return &Repository[models.Client]{db: db}
}

func NewCategoryRepository(db *gorm.DB) *Repository[models.Category] {
	return &Repository[models.Category]{db: db}
}

func NewUnitRepository(db *gorm.DB) *Repository[models.Unit] {
	return &Repository[models.Unit]{db: db}
}

// List returns every row ordered by name, then id.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update overwrites the given columns; gorm.ErrRecordNotFound when no row has id.
func (r *Repository[T]) Update(ctx context.Context, id int64, fields map[string]any) error {
	var model T
	res := r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the row; gorm.ErrRecordNotFound when no row has id.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	var model T
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ItemRepository adds the category join used by item listings.
type ItemRepository struct {
	*Repository[models.Item]
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{Repository: &Repository[models.Item]{db: db}}
}

// ListWithCategory returns items joined with their category name, optionally
// restricted to one category.
func (r *ItemRepository) ListWithCategory(ctx context.Context, categoryID *int64) ([]ItemView, error) {
	query := r.db.WithContext(ctx).
		Table("items AS i").
		Select("i.id, i.name, i.category_id, COALESCE(c.name, '') AS category_name").
		Joins("LEFT JOIN categories c ON c.id = i.category_id")
	if categoryID != nil {
		query = query.Where("i.category_id = ?", *categoryID)
	}

	var rows []ItemView
	if err := query.Order("i.name ASC").Order("i.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
