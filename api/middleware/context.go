package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

type contextKey string

const ctxActor contextKey = "actor"

const (
	// ActorHeader names the operator on whose behalf the desk client calls.
	ActorHeader       = "X-Actor"
	IdempotencyHeader = "Idempotency-Key"
	maxActorLength    = 100
)

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActor).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the operator name into the context.
func WithActor(ctx context.Context, actor string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// Actor reads the optional X-Actor header into the request context and the
// request logger. There is no authentication; the name is informational.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(ActorHeader))
			if len(actor) > maxActorLength {
				actor = actor[:maxActorLength]
			}
			if actor == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithActor(r.Context(), actor)
			if logg != nil {
				ctx = logg.WithActor(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
