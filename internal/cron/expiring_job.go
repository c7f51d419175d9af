package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/tariffdesk/tariffdesk-backend/internal/expiring"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

// ExpiringTariffsJobParams configures the expiring tariffs watch.
type ExpiringTariffsJobParams struct {
	Logger  *logger.Logger
	Service expiringLister
	Gauge   expiringGauge
}

type expiringLister interface {
	List(ctx context.Context) ([]expiring.Client, error)
	Lookahead() time.Duration
}

type expiringGauge interface {
	SetExpiringClients(n int)
}

// NewExpiringTariffsJob constructs the job that warns about clients whose
// tariffs are about to lapse.
func NewExpiringTariffsJob(params ExpiringTariffsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("expiring service required")
	}
	return &expiringTariffsJob{
		logg:  params.Logger,
		svc:   params.Service,
		gauge: params.Gauge,
		now:   time.Now,
	}, nil
}

type expiringTariffsJob struct {
	logg  *logger.Logger
	svc   expiringLister
	gauge expiringGauge
	now   func() time.Time
}

func (j *expiringTariffsJob) Name() string { return "expiring-tariffs" }

func (j *expiringTariffsJob) Run(ctx context.Context) error {
	clients, err := j.svc.List(ctx)
	if err != nil {
		return fmt.Errorf("list expiring clients: %w", err)
	}
	if j.gauge != nil {
		j.gauge.SetExpiringClients(len(clients))
	}

	today := dbtypes.DateOf(j.now().UTC())
	expired := 0
	for _, client := range clients {
		state := "expiring"
		if client.FirstExpiry.Before(today) {
			state = "expired"
			expired++
		}
		clientCtx := j.logg.WithFields(ctx, map[string]any{
			"client_id":    client.ID,
			"client_name":  client.Name,
			"first_expiry": client.FirstExpiry.String(),
			"tariff_count": client.TariffCount,
			"state":        state,
		})
		j.logg.Warn(clientCtx, "client has tariffs near or past expiry")
	}

	summaryCtx := j.logg.WithFields(ctx, map[string]any{
		"clients":        len(clients),
		"expired":        expired,
		"lookahead_days": int(j.svc.Lookahead() / (24 * time.Hour)),
	})
	j.logg.Info(summaryCtx, "expiring tariffs check complete")
	return nil
}
