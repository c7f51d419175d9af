package routes

import (
	"fmt"
	"time"

	"github.com/tariffdesk/tariffdesk-backend/internal/catalog"
	"github.com/tariffdesk/tariffdesk-backend/internal/expiring"
	"github.com/tariffdesk/tariffdesk-backend/internal/history"
	"github.com/tariffdesk/tariffdesk-backend/internal/increases"
	"github.com/tariffdesk/tariffdesk-backend/internal/prepvalues"
	"github.com/tariffdesk/tariffdesk-backend/internal/rangedtariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/sheets"
	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
	"github.com/tariffdesk/tariffdesk-backend/pkg/metrics"
)

// BuildServices wires every repository and service on one database client.
func BuildServices(dbClient *db.Client, logg *logger.Logger, tariffMetrics *metrics.TariffMetrics, lookahead time.Duration) (Services, error) {
	if dbClient == nil {
		return Services{}, fmt.Errorf("db client required")
	}
	conn := dbClient.DB()

	clientRepo := catalog.NewClientRepository(conn)
	tariffRepo := tariffs.NewRepository(conn)

	catalogSvc, err := catalog.NewService(
		clientRepo,
		catalog.NewCategoryRepository(conn),
		catalog.NewUnitRepository(conn),
		catalog.NewItemRepository(conn),
	)
	if err != nil {
		return Services{}, fmt.Errorf("catalog service: %w", err)
	}
	tariffSvc, err := tariffs.NewService(tariffRepo)
	if err != nil {
		return Services{}, fmt.Errorf("tariffs service: %w", err)
	}
	rangedSvc, err := rangedtariffs.NewService(rangedtariffs.NewRepository(conn))
	if err != nil {
		return Services{}, fmt.Errorf("ranged tariffs service: %w", err)
	}
	increaseSvc, err := increases.NewService(
		increases.NewRepository(conn),
		dbClient,
		logg,
		increases.WithMetrics(tariffMetrics),
	)
	if err != nil {
		return Services{}, fmt.Errorf("increases service: %w", err)
	}
	historySvc, err := history.NewService(history.NewRepository(conn))
	if err != nil {
		return Services{}, fmt.Errorf("history service: %w", err)
	}
	expiringSvc, err := expiring.NewService(expiring.NewRepository(conn), lookahead)
	if err != nil {
		return Services{}, fmt.Errorf("expiring service: %w", err)
	}
	sheetSvc, err := sheets.NewService(clientRepo, tariffRepo)
	if err != nil {
		return Services{}, fmt.Errorf("sheets service: %w", err)
	}
	prepSvc, err := prepvalues.NewService(prepvalues.NewRepository(conn))
	if err != nil {
		return Services{}, fmt.Errorf("prep values service: %w", err)
	}

	return Services{
		Catalog:       catalogSvc,
		Tariffs:       tariffSvc,
		RangedTariffs: rangedSvc,
		Increases:     increaseSvc,
		History:       historySvc,
		Expiring:      expiringSvc,
		Sheets:        sheetSvc,
		PrepValues:    prepSvc,
	}, nil
}
