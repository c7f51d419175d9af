package history

import (
	"context"
	"fmt"

	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

type historyRepository interface {
	List(ctx context.Context, filter Filter) ([]Row, error)
}

// Service exposes the read side of the tariff history trail.
type Service interface {
	List(ctx context.Context, filter Filter) ([]View, error)
}

type service struct {
	repo historyRepository
}

func NewService(repo historyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]View, error) {
	if err := filter.Filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list historical tariffs")
	}
	views := make([]View, len(rows))
	for i, row := range rows {
		views[i] = row.View()
	}
	return views, nil
}
