package sheets

import (
	"context"
	"fmt"
	"sort"

	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// Sheet is the tariff list handed to one client.
type Sheet struct {
	ClientID   int64  `json:"client_id"`
	ClientName string `json:"client_name"`
	Lines      []Line `json:"tariffs"`
}

type Line struct {
	Category     string        `json:"category"`
	Item         string        `json:"item"`
	Unit         string        `json:"unit"`
	Price        float64       `json:"price"`
	Minimum      *float64      `json:"minimum"`
	IncrementPct float64       `json:"increment_pct"`
	ValidFrom    dbtypes.Date  `json:"valid_from"`
	ValidTo      *dbtypes.Date `json:"valid_to"`
}

type clientsRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Client, error)
}

type tariffsRepository interface {
	List(ctx context.Context, filter tariffs.Filter) ([]tariffs.Row, error)
}

type Service interface {
	Build(ctx context.Context, clientID int64) (*Sheet, error)
}

type service struct {
	clients clientsRepository
	tariffs tariffsRepository
}

func NewService(clients clientsRepository, tariffRepo tariffsRepository) (Service, error) {
	if clients == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if tariffRepo == nil {
		return nil, fmt.Errorf("tariffs repository required")
	}
	return &service{clients: clients, tariffs: tariffRepo}, nil
}

// Build collects every tariff of the client sorted by category, item and unit.
func (s *service) Build(ctx context.Context, clientID int64) (*Sheet, error) {
	if clientID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id must be a positive integer").
			WithDetails(map[string]any{"id": clientID})
	}
	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("client", clientID)
		}
		return nil, pkgerrors.Persistence(err, "lookup client")
	}

	rows, err := s.tariffs.List(ctx, tariffs.Filter{ClientID: &clientID})
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list client tariffs")
	}

	lines := make([]Line, len(rows))
	for i, row := range rows {
		view := row.View()
		lines[i] = Line{
			Category:     view.CategoryName,
			Item:         view.ItemName,
			Unit:         view.UnitName,
			Price:        view.Price,
			Minimum:      view.Minimum,
			IncrementPct: view.IncrementPct,
			ValidFrom:    view.ValidFrom,
			ValidTo:      view.ValidTo,
		}
	}
	sort.SliceStable(lines, func(a, b int) bool {
		if lines[a].Category != lines[b].Category {
			return lines[a].Category < lines[b].Category
		}
		if lines[a].Item != lines[b].Item {
			return lines[a].Item < lines[b].Item
		}
		return lines[a].Unit < lines[b].Unit
	})

	return &Sheet{ClientID: client.ID, ClientName: client.Name, Lines: lines}, nil
}
