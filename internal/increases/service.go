package increases

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

// Service applies percentage increases to every tariff matching a selection.
type Service interface {
	Apply(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics increaseMetrics
	logg    *logger.Logger
	now     func() time.Time
}

type Option func(*service)

// WithClock overrides the clock used to stamp history rows.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithMetrics(m increaseMetrics) Option {
	return func(s *service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func NewService(repo Repository, tx txRunner, logg *logger.Logger, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("increase repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	s := &service{
		repo:    repo,
		tx:      tx,
		metrics: noopMetrics{},
		logg:    logg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Apply snapshots each matching tariff into the history table and rewrites
// its price, increment and validity in a single transaction. Any failure
// rolls every row back.
func (s *service) Apply(ctx context.Context, req Request) (*Result, error) {
	sel, err := req.Validate()
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"criterion":    sel.Criterion.String(),
		"selection_id": sel.SelectionID,
		"percentage":   sel.Percentage.String(),
		"actor":        sel.User,
	})

	var updated int64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.LockMatching(ctx, sel)
		if err != nil {
			return pkgerrors.Persistence(err, "select tariffs for increase")
		}

		movedAt := s.now().UTC()
		for _, row := range rows {
			snapshot := models.SnapshotTariff(row, sel.User, movedAt, enums.HistoryActionIncrease)
			if err := repo.AppendHistory(ctx, &snapshot); err != nil {
				return pkgerrors.Persistence(err, "write tariff history")
			}

			from := row.ValidFrom
			if sel.DateFrom != nil {
				from = *sel.DateFrom
			}
			to := row.ValidTo
			if sel.DateTo != nil {
				to = sel.DateTo
			}
			if to != nil && from.After(*to) {
				return pkgerrors.New(pkgerrors.CodeValidation, "increase would invert a tariff validity window").
					WithDetails(map[string]any{"tariff_id": row.ID, "valid_from": from.String(), "valid_to": to.String()})
			}

			price := IncreasedPrice(row.Price, sel.Percentage)
			if err := repo.ApplyIncrease(ctx, row.ID, price, sel.Percentage.Round(2), from, to); err != nil {
				return pkgerrors.Persistence(err, "update tariff price")
			}
			updated++
		}
		return nil
	})

	if err != nil && pkgerrors.As(err) == nil {
		err = pkgerrors.Persistence(err, "commit bulk increase")
	}
	s.metrics.ObserveIncrease(sel.Criterion.String(), updated, err)
	if err != nil {
		s.logg.Error(ctx, "bulk tariff increase rolled back", err)
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "updated_count", updated), "bulk tariff increase applied")
	return &Result{UpdatedCount: updated}, nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveIncrease(string, int64, error) {}
