package rangedtariffs

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/testdb"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

func newInput(f testdb.Fixture, from, to string) Input {
	return Input{
		Input: tariffs.Input{
			ClientID:     f.ClientID,
			ItemID:       f.ItemID,
			UnitID:       f.UnitID,
			Price:        decimal.RequireFromString("12.5"),
			IncrementPct: decimal.Zero,
			ValidFrom:    testdb.Date(2025, time.January, 1),
			ValidTo:      testdb.DatePtr(2025, time.December, 31),
		},
		FromQty: decimal.RequireFromString(from),
		ToQty:   decimal.RequireFromString(to),
	}
}

func TestRangedTariffLifecycle(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	created, err := svc.Create(ctx, newInput(f, "1", "100"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, created.FromQty)
	assert.Equal(t, 100.0, created.ToQty)
	assert.Equal(t, "Acme", created.ClientName)
	assert.Equal(t, 12.5, created.Price)

	updated, err := svc.Update(ctx, created.ID, newInput(f, "101", "0"))
	require.NoError(t, err)
	assert.Equal(t, 101.0, updated.FromQty)
	assert.Equal(t, 0.0, updated.ToQty)

	list, err := svc.List(ctx, tariffs.Filter{UnitID: &f.UnitID})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRangedTariffValidatesRange(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), newInput(f, "50", "10"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Details().(map[string]string), "to_qty")

	var count int64
	require.NoError(t, conn.Model(&models.RangedTariff{}).Count(&count).Error)
	assert.Zero(t, count)
}
