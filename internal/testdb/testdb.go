// Package testdb opens throwaway sqlite databases with the full schema for
// repository, service and handler tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
)

var seq atomic.Int64

// Open returns an in-memory database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

// Fixture holds the ids of a small seeded catalog.
type Fixture struct {
	ClientID   int64
	CategoryID int64
	ItemID     int64
	UnitID     int64
}

// Seed inserts one client, category, item and unit with the given names.
func Seed(t testing.TB, conn *gorm.DB, client, category, item, unit string) Fixture {
	t.Helper()
	c := models.Client{Name: client}
	cat := models.Category{Name: category}
	u := models.Unit{Name: unit}
	mustCreate(t, conn, &c)
	mustCreate(t, conn, &cat)
	mustCreate(t, conn, &u)
	it := models.Item{Name: item, CategoryID: cat.ID}
	mustCreate(t, conn, &it)
	return Fixture{ClientID: c.ID, CategoryID: cat.ID, ItemID: it.ID, UnitID: u.ID}
}

// Tariff inserts a flat tariff for the fixture and returns it.
func Tariff(t testing.TB, conn *gorm.DB, f Fixture, price string, from dbtypes.Date, to *dbtypes.Date) models.Tariff {
	t.Helper()
	row := models.Tariff{
		ClientID:     f.ClientID,
		ItemID:       f.ItemID,
		UnitID:       f.UnitID,
		Price:        decimal.RequireFromString(price),
		IncrementPct: decimal.Zero,
		ValidFrom:    from,
		ValidTo:      to,
	}
	mustCreate(t, conn, &row)
	return row
}

// Date is a shorthand for dbtypes.NewDate.
func Date(year int, month time.Month, day int) dbtypes.Date {
	return dbtypes.NewDate(year, month, day)
}

// DatePtr returns a pointer to the given day.
func DatePtr(year int, month time.Month, day int) *dbtypes.Date {
	d := dbtypes.NewDate(year, month, day)
	return &d
}

func mustCreate(t testing.TB, conn *gorm.DB, value any) {
	t.Helper()
	if err := conn.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}
