package tariffs

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tariffdesk/tariffdesk-backend/internal/testdb"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

func int64Ptr(v int64) *int64 { return &v }

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	created, err := svc.Create(ctx, Input{
		ClientID:     f.ClientID,
		ItemID:       f.ItemID,
		UnitID:       f.UnitID,
		Price:        decimal.RequireFromString("125.50"),
		Minimum:      decimalPtr("30"),
		IncrementPct: decimal.RequireFromString("4.5"),
		ValidFrom:    testdb.Date(2025, time.January, 1),
		ValidTo:      testdb.DatePtr(2025, time.December, 31),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ClientID, got.ClientID)
	assert.Equal(t, "Acme", got.ClientName)
	assert.Equal(t, "Pallet", got.ItemName)
	assert.Equal(t, "Logistics", got.CategoryName)
	assert.Equal(t, f.CategoryID, got.CategoryID)
	assert.Equal(t, "Unit", got.UnitName)
	assert.Equal(t, 125.5, got.Price)
	require.NotNil(t, got.Minimum)
	assert.Equal(t, 30.0, *got.Minimum)
	assert.Equal(t, 4.5, got.IncrementPct)
	assert.Equal(t, "2025-01-01", got.ValidFrom.String())
	require.NotNil(t, got.ValidTo)
	assert.Equal(t, "2025-12-31", got.ValidTo.String())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	conn := testdb.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Input{
		Price:     decimal.RequireFromString("-1"),
		ValidFrom: testdb.Date(2025, time.March, 1),
		ValidTo:   testdb.DatePtr(2025, time.February, 1),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	for _, field := range []string{"client_id", "item_id", "unit_id", "price", "valid_to"} {
		assert.Contains(t, details, field)
	}

	var count int64
	require.NoError(t, conn.Model(&models.Tariff{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateAndDeleteMissingTariff(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	existing := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), nil)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	err = svc.Delete(ctx, existing.ID+100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "delete: %v", err)

	_, err = svc.Update(ctx, existing.ID+100, Input{
		ClientID: f.ClientID, ItemID: f.ItemID, UnitID: f.UnitID,
		Price: decimal.NewFromInt(1), ValidFrom: testdb.Date(2025, time.January, 1),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "update: %v", err)

	_, err = svc.Get(ctx, existing.ID+100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "get: %v", err)

	got, err := svc.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Price)
}

func TestUpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	existing := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), testdb.DatePtr(2025, time.June, 30))
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, existing.ID, Input{
		ClientID: f.ClientID, ItemID: f.ItemID, UnitID: f.UnitID,
		Price:        decimal.RequireFromString("99.999"),
		IncrementPct: decimal.NewFromInt(2),
		ValidFrom:    testdb.Date(2025, time.February, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, updated.Price, "price is rounded to cents")
	assert.Equal(t, "2025-02-01", updated.ValidFrom.String())
	assert.Nil(t, updated.ValidTo)

	require.NoError(t, svc.Delete(ctx, existing.ID))
	_, err = svc.Get(ctx, existing.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	acme := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	beta := testdb.Seed(t, conn, "Beta", "Storage", "Rack", "Kilo")

	testdb.Tariff(t, conn, acme, "100", testdb.Date(2025, time.January, 1), testdb.DatePtr(2025, time.June, 30))
	testdb.Tariff(t, conn, acme, "200", testdb.Date(2025, time.July, 1), testdb.DatePtr(2025, time.December, 31))
	testdb.Tariff(t, conn, beta, "300", testdb.Date(2025, time.January, 1), nil)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byClient, err := svc.List(ctx, Filter{ClientID: int64Ptr(acme.ClientID)})
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	byCategory, err := svc.List(ctx, Filter{CategoryID: int64Ptr(beta.CategoryID)})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Rack", byCategory[0].ItemName)

	firstHalf, err := svc.List(ctx, Filter{
		UnitID:   int64Ptr(acme.UnitID),
		DateFrom: testdb.DatePtr(2025, time.January, 1),
		DateTo:   testdb.DatePtr(2025, time.June, 30),
	})
	require.NoError(t, err)
	require.Len(t, firstHalf, 1)
	assert.Equal(t, 100.0, firstHalf[0].Price)

	fromJuly, err := svc.List(ctx, Filter{DateFrom: testdb.DatePtr(2025, time.July, 1)})
	require.NoError(t, err)
	require.Len(t, fromJuly, 1)
	assert.Equal(t, 200.0, fromJuly[0].Price)

	_, err = svc.List(ctx, Filter{
		DateFrom: testdb.DatePtr(2025, time.July, 1),
		DateTo:   testdb.DatePtr(2025, time.January, 1),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.List(ctx, Filter{ClientID: int64Ptr(0)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
