package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

const maxNameLength = 255

type entityRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type itemsRepository interface {
	entityRepository[models.Item]
	ListWithCategory(ctx context.Context, categoryID *int64) ([]ItemView, error)
}

// Service exposes CRUD over clients, categories, units and items.
type Service interface {
	ListClients(ctx context.Context) ([]Entity, error)
	CreateClient(ctx context.Context, input NameInput) (*Entity, error)
	UpdateClient(ctx context.Context, id int64, input NameInput) (*Entity, error)
	DeleteClient(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]Entity, error)
	CreateCategory(ctx context.Context, input NameInput) (*Entity, error)
	UpdateCategory(ctx context.Context, id int64, input NameInput) (*Entity, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListUnits(ctx context.Context) ([]Entity, error)
	CreateUnit(ctx context.Context, input NameInput) (*Entity, error)
	UpdateUnit(ctx context.Context, id int64, input NameInput) (*Entity, error)
	DeleteUnit(ctx context.Context, id int64) error

	ListItems(ctx context.Context, categoryID *int64) ([]ItemView, error)
	CreateItem(ctx context.Context, input ItemInput) (*ItemView, error)
	UpdateItem(ctx context.Context, id int64, input ItemInput) (*ItemView, error)
	DeleteItem(ctx context.Context, id int64) error
}

type service struct {
	clients    entityRepository[models.Client]
	categories entityRepository[models.Category]
	units      entityRepository[models.Unit]
	items      itemsRepository
}

// NewService builds the catalog service backed by the provided repositories.
func NewService(clients entityRepository[models.Client], categories entityRepository[models.Category], units entityRepository[models.Unit], items itemsRepository) (Service, error) {
	if clients == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	if units == nil {
		return nil, fmt.Errorf("units repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("items repository required")
	}
	return &service{clients: clients, categories: categories, units: units, items: items}, nil
}

func (s *service) ListClients(ctx context.Context) ([]Entity, error) {
	rows, err := s.clients.List(ctx)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list clients")
	}
	out := make([]Entity, len(rows))
	for i, row := range rows {
		out[i] = Entity{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (s *service) CreateClient(ctx context.Context, input NameInput) (*Entity, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	row := &models.Client{Name: name}
	if err := s.clients.Create(ctx, row); err != nil {
		return nil, pkgerrors.Persistence(err, "create client")
	}
	return &Entity{ID: row.ID, Name: row.Name}, nil
}

func (s *service) UpdateClient(ctx context.Context, id int64, input NameInput) (*Entity, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, id, map[string]any{"name": name}); err != nil {
		return nil, mapWriteError(err, "client", id)
	}
	return &Entity{ID: id, Name: name}, nil
}

func (s *service) DeleteClient(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return mapWriteError(err, "client", id)
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]Entity, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list categories")
	}
	out := make([]Entity, len(rows))
	for i, row := range rows {
		out[i] = Entity{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, input NameInput) (*Entity, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	row := &models.Category{Name: name}
	if err := s.categories.Create(ctx, row); err != nil {
		return nil, pkgerrors.Persistence(err, "create category")
	}
	return &Entity{ID: row.ID, Name: row.Name}, nil
}

func (s *service) UpdateCategory(ctx context.Context, id int64, input NameInput) (*Entity, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, id, map[string]any{"name": name}); err != nil {
		return nil, mapWriteError(err, "category", id)
	}
	return &Entity{ID: id, Name: name}, nil
}

func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return mapWriteError(err, "category", id)
	}
	return nil
}

func (s *service) ListUnits(ctx context.Context) ([]Entity, error) {
	rows, err := s.units.List(ctx)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list units")
	}
	out := make([]Entity, len(rows))
	for i, row := range rows {
		out[i] = Entity{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (s *service) CreateUnit(ctx context.Context, input NameInput) (*Entity, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	row := &models.Unit{Name: name}
	if err := s.units.Create(ctx, row); err != nil {
		return nil, pkgerrors.Persistence(err, "create unit")
	}
	return &Entity{ID: row.ID, Name: row.Name}, nil
}

func (s *service) UpdateUnit(ctx context.Context, id int64, input NameInput) (*Entity, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := s.units.Update(ctx, id, map[string]any{"name": name}); err != nil {
		return nil, mapWriteError(err, "unit", id)
	}
	return &Entity{ID: id, Name: name}, nil
}

func (s *service) DeleteUnit(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.units.Delete(ctx, id); err != nil {
		return mapWriteError(err, "unit", id)
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, categoryID *int64) ([]ItemView, error) {
	if categoryID != nil {
		if err := checkID(*categoryID); err != nil {
			return nil, err
		}
	}
	rows, err := s.items.ListWithCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list items")
	}
	if rows == nil {
		rows = []ItemView{}
	}
	return rows, nil
}

func (s *service) CreateItem(ctx context.Context, input ItemInput) (*ItemView, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	row := &models.Item{Name: name, CategoryID: input.CategoryID}
	if err := s.items.Create(ctx, row); err != nil {
		return nil, pkgerrors.Persistence(err, "create item")
	}
	return s.itemView(ctx, row)
}

func (s *service) UpdateItem(ctx context.Context, id int64, input ItemInput) (*ItemView, error) {
	name, err := input.normalize()
	if err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	fields := map[string]any{"name": name, "category_id": input.CategoryID}
	if err := s.items.Update(ctx, id, fields); err != nil {
		return nil, mapWriteError(err, "item", id)
	}
	return s.itemView(ctx, &models.Item{ID: id, Name: name, CategoryID: input.CategoryID})
}

func (s *service) DeleteItem(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return mapWriteError(err, "item", id)
	}
	return nil
}

func (s *service) itemView(ctx context.Context, item *models.Item) (*ItemView, error) {
	view := &ItemView{ID: item.ID, Name: item.Name, CategoryID: item.CategoryID}
	category, err := s.categories.FindByID(ctx, item.CategoryID)
	switch {
	case err == nil:
		view.CategoryName = category.Name
	case db.IsNotFound(err):
	default:
		return nil, pkgerrors.Persistence(err, "lookup item category")
	}
	return view, nil
}

func checkID(id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "id must be a positive integer").
			WithDetails(map[string]any{"id": id})
	}
	return nil
}

func mapWriteError(err error, resource string, id int64) error {
	if db.IsNotFound(err) {
		return pkgerrors.NotFound(resource, id)
	}
	return pkgerrors.Persistence(err, fmt.Sprintf("write %s", resource))
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"name": "is required"})
	}
	if len(name) > maxNameLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"name": fmt.Sprintf("must be at most %d characters", maxNameLength)})
	}
	return name, nil
}
