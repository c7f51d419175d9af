package expiring

import (
	"context"
	"fmt"
	"time"

	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

// DefaultLookahead is how far ahead a tariff counts as expiring.
const DefaultLookahead = 20 * 24 * time.Hour

// Client is a client with tariffs inside the lookahead window.
type Client struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	FirstExpiry dbtypes.Date `json:"first_expiry"`
	TariffCount int64        `json:"tariff_count"`
}

type expiringRepository interface {
	ClientsExpiringBy(ctx context.Context, cutoff dbtypes.Date) ([]Client, error)
}

type Service interface {
	// List returns clients having a tariff with valid_to <= today + lookahead.
	List(ctx context.Context) ([]Client, error)
	Lookahead() time.Duration
}

type service struct {
	repo      expiringRepository
	lookahead time.Duration
	now       func() time.Time
}

func NewService(repo expiringRepository, lookahead time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expiring repository required")
	}
	if lookahead < 0 {
		return nil, fmt.Errorf("lookahead must not be negative")
	}
	if lookahead == 0 {
		lookahead = DefaultLookahead
	}
	return &service{repo: repo, lookahead: lookahead, now: time.Now}, nil
}

func (s *service) Lookahead() time.Duration { return s.lookahead }

func (s *service) List(ctx context.Context) ([]Client, error) {
	cutoff := dbtypes.DateOf(s.now().UTC().Add(s.lookahead))
	rows, err := s.repo.ClientsExpiringBy(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Persistence(err, "list expiring tariffs")
	}
	if rows == nil {
		rows = []Client{}
	}
	return rows, nil
}
