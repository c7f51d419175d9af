package tariffs

import (
	"context"
	"fmt"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

type tariffsRepository interface {
	List(ctx context.Context, filter Filter) ([]Row, error)
	FindByID(ctx context.Context, id int64) (*Row, error)
	Create(ctx context.Context, tariff *models.Tariff) error
	Update(ctx context.Context, id int64, tariff *models.Tariff) error
	Delete(ctx context.Context, id int64) error
}

// Service exposes flat tariff CRUD.
type Service interface {
	List(ctx context.Context, filter Filter) ([]View, error)
	Get(ctx context.Context, id int64) (*View, error)
	Create(ctx context.Context, input Input) (*View, error)
	Update(ctx context.Context, id int64, input Input) (*View, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo tariffsRepository
}

func NewService(repo tariffsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tariff repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]View, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list tariffs")
	}
	views := make([]View, len(rows))
	for i, row := range rows {
		views[i] = row.View()
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, id int64) (*View, error) {
	if id <= 0 {
		return nil, invalidID(id)
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id, "load tariff")
	}
	view := row.View()
	return &view, nil
}

func (s *service) Create(ctx context.Context, input Input) (*View, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	tariff := input.toModel()
	if err := s.repo.Create(ctx, &tariff); err != nil {
		return nil, pkgerrors.Persistence(err, "create tariff")
	}
	return s.Get(ctx, tariff.ID)
}

func (s *service) Update(ctx context.Context, id int64, input Input) (*View, error) {
	if id <= 0 {
		return nil, invalidID(id)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	tariff := input.toModel()
	if err := s.repo.Update(ctx, id, &tariff); err != nil {
		return nil, mapError(err, id, "update tariff")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidID(id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err, id, "delete tariff")
	}
	return nil
}

func invalidID(id int64) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "id must be a positive integer").
		WithDetails(map[string]any{"id": id})
}

func mapError(err error, id int64, action string) error {
	if db.IsNotFound(err) {
		return pkgerrors.NotFound("tariff", id)
	}
	return pkgerrors.Persistence(err, action)
}
