package prepvalues

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// Input is a per kilo preparation value for one client and validity window.
type Input struct {
	ClientID     int64
	ValidFrom    dbtypes.Date
	ValidTo      *dbtypes.Date
	ValuePerKilo decimal.Decimal
}

type View struct {
	ID           int64         `json:"id"`
	ClientID     int64         `json:"client_id"`
	ClientName   string        `json:"client_name"`
	ValidFrom    dbtypes.Date  `json:"valid_from"`
	ValidTo      *dbtypes.Date `json:"valid_to"`
	ValuePerKilo float64       `json:"value"`
}

type Row struct {
	models.PrepValue `gorm:"embedded"`
	ClientName       string
}

func (r Row) View() View {
	return View{
		ID:           r.ID,
		ClientID:     r.ClientID,
		ClientName:   r.ClientName,
		ValidFrom:    r.ValidFrom,
		ValidTo:      r.ValidTo,
		ValuePerKilo: r.ValuePerKilo.InexactFloat64(),
	}
}

type prepRepository interface {
	List(ctx context.Context, clientID *int64) ([]Row, error)
	Create(ctx context.Context, row *models.PrepValue) error
	ClientName(ctx context.Context, clientID int64) (string, error)
}

type Service interface {
	List(ctx context.Context, clientID *int64) ([]View, error)
	Create(ctx context.Context, input Input) (*View, error)
}

type service struct {
	repo prepRepository
}

func NewService(repo prepRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("prep values repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, clientID *int64) ([]View, error) {
	if clientID != nil && *clientID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid filter").
			WithDetails(map[string]string{"client": "must be a positive integer"})
	}
	rows, err := s.repo.List(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list prep values")
	}
	views := make([]View, len(rows))
	for i, row := range rows {
		views[i] = row.View()
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, input Input) (*View, error) {
	details := map[string]string{}
	if input.ClientID <= 0 {
		details["client_id"] = "is required"
	}
	if input.ValidFrom.IsZero() {
		details["valid_from"] = "is required"
	}
	if input.ValidTo != nil && input.ValidFrom.After(*input.ValidTo) {
		details["valid_to"] = "must not be before valid_from"
	}
	if input.ValuePerKilo.IsNegative() {
		details["value"] = "must not be negative"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	row := models.PrepValue{
		ClientID:     input.ClientID,
		ValidFrom:    input.ValidFrom,
		ValidTo:      input.ValidTo,
		ValuePerKilo: input.ValuePerKilo.Round(4),
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Persistence(err, "create prep value")
	}

	name, err := s.repo.ClientName(ctx, row.ClientID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Persistence(err, "lookup prep value client")
	}
	view := Row{PrepValue: row, ClientName: name}.View()
	return &view, nil
}
