package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tariffdesk/tariffdesk-backend/api/controllers"
	"github.com/tariffdesk/tariffdesk-backend/api/middleware"
	"github.com/tariffdesk/tariffdesk-backend/internal/catalog"
	"github.com/tariffdesk/tariffdesk-backend/internal/expiring"
	"github.com/tariffdesk/tariffdesk-backend/internal/history"
	"github.com/tariffdesk/tariffdesk-backend/internal/increases"
	"github.com/tariffdesk/tariffdesk-backend/internal/prepvalues"
	"github.com/tariffdesk/tariffdesk-backend/internal/rangedtariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/sheets"
	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/config"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
	"github.com/tariffdesk/tariffdesk-backend/pkg/redis"
)

// Services groups the domain services mounted under /api.
type Services struct {
	Catalog       catalog.Service
	Tariffs       tariffs.Service
	RangedTariffs rangedtariffs.Service
	Increases     increases.Service
	History       history.Service
	Expiring      expiring.Service
	Sheets        sheets.Service
	PrepValues    prepvalues.Service
}

// NewRouter mounts the API. redisClient may be nil, in which case idempotency
// keys are ignored and readiness skips Redis. metricsHandler may be nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	deps := map[string]controllers.Pinger{"database": dbP}
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		deps["redis"] = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(
			middleware.CORS(),
			middleware.Actor(logg),
			middleware.Idempotency(idempotencyStore, cfg.Tariffs.BulkIdempotencyTTL, logg),
		)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(svc.Catalog, logg))
			r.Post("/", controllers.ClientCreate(svc.Catalog, logg))
			r.Put("/{id}", controllers.ClientUpdate(svc.Catalog, logg))
			r.Delete("/{id}", controllers.ClientDelete(svc.Catalog, logg))
			r.Get("/{id}/tariff_sheet", controllers.ClientTariffSheet(svc.Sheets, logg))
			r.Get("/{id}/tariff_sheet.xlsx", controllers.ClientTariffSheetXLSX(svc.Sheets, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svc.Catalog, logg))
			r.Post("/", controllers.CategoryCreate(svc.Catalog, logg))
			r.Put("/{id}", controllers.CategoryUpdate(svc.Catalog, logg))
			r.Delete("/{id}", controllers.CategoryDelete(svc.Catalog, logg))
		})
		r.Route("/units", func(r chi.Router) {
			r.Get("/", controllers.UnitList(svc.Catalog, logg))
			r.Post("/", controllers.UnitCreate(svc.Catalog, logg))
			r.Put("/{id}", controllers.UnitUpdate(svc.Catalog, logg))
			r.Delete("/{id}", controllers.UnitDelete(svc.Catalog, logg))
		})
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(svc.Catalog, logg))
			r.Post("/", controllers.ItemCreate(svc.Catalog, logg))
			r.Put("/{id}", controllers.ItemUpdate(svc.Catalog, logg))
			r.Delete("/{id}", controllers.ItemDelete(svc.Catalog, logg))
		})

		r.Route("/tariffs", func(r chi.Router) {
			r.Get("/", controllers.TariffList(svc.Tariffs, logg))
			r.Post("/", controllers.TariffCreate(svc.Tariffs, logg))
			r.Post("/filter", controllers.TariffFilter(svc.Tariffs, logg))
			r.Get("/{id}", controllers.TariffGet(svc.Tariffs, logg))
			r.Put("/{id}", controllers.TariffUpdate(svc.Tariffs, logg))
			r.Delete("/{id}", controllers.TariffDelete(svc.Tariffs, logg))
		})
		r.Route("/ranged_tariffs", func(r chi.Router) {
			r.Get("/", controllers.RangedTariffList(svc.RangedTariffs, logg))
			r.Post("/", controllers.RangedTariffCreate(svc.RangedTariffs, logg))
			r.Post("/filter", controllers.RangedTariffFilter(svc.RangedTariffs, logg))
			r.Get("/{id}", controllers.RangedTariffGet(svc.RangedTariffs, logg))
			r.Put("/{id}", controllers.RangedTariffUpdate(svc.RangedTariffs, logg))
			r.Delete("/{id}", controllers.RangedTariffDelete(svc.RangedTariffs, logg))
		})

		r.Post("/bulk_tariff_update", controllers.BulkTariffUpdate(svc.Increases, logg))
		r.Get("/expiring_tariffs", controllers.ExpiringTariffs(svc.Expiring, logg))
		r.Get("/historical_tariffs", controllers.HistoricalTariffs(svc.History, logg))

		r.Route("/prep_values", func(r chi.Router) {
			r.Get("/", controllers.PrepValueList(svc.PrepValues, logg))
			r.Post("/", controllers.PrepValueCreate(svc.PrepValues, logg))
		})
	})

	return r
}
