package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tariffdesk/tariffdesk-backend/api/responses"
	"github.com/tariffdesk/tariffdesk-backend/pkg/config"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

const (
	envHeader    = "X-Tariffdesk-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is anything the readiness check depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency and fails with 503 on the first
// one that does not answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
