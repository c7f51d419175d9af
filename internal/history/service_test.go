package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/testdb"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

func TestListJoinsNamesAndFiltersByMovementDay(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	tariff := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), nil)

	repo := NewRepository(conn)
	first := models.SnapshotTariff(tariff, "maria", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), enums.HistoryActionIncrease)
	tariff.Price = decimal.NewFromInt(110)
	second := models.SnapshotTariff(tariff, "jose", time.Date(2025, 3, 11, 23, 30, 0, 0, time.UTC), enums.HistoryActionIncrease)
	require.NoError(t, repo.Append(ctx, &first))
	require.NoError(t, repo.Append(ctx, &second))

	svc, err := NewService(repo)
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "jose", all[0].UserName, "newest movement first")
	assert.Equal(t, 110.0, all[0].Price)
	assert.Equal(t, "Acme", all[1].ClientName)
	assert.Equal(t, "Logistics", all[1].CategoryName)
	assert.Equal(t, enums.HistoryActionIncrease, all[1].Action)

	day := testdb.Date(2025, time.March, 10)
	onDay, err := svc.List(ctx, Filter{MovedOn: &day})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, "maria", onDay[0].UserName)
	assert.Equal(t, 100.0, onDay[0].Price)

	other := f.ClientID + 1
	none, err := svc.List(ctx, Filter{Filter: tariffs.Filter{ClientID: &other}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAppendInsideRolledBackTransactionLeavesNothing(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	tariff := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), nil)
	repo := NewRepository(conn)

	errRollback := errors.New("rollback")
	err := conn.Transaction(func(tx *gorm.DB) error {
		row := models.SnapshotTariff(tariff, "maria", time.Now().UTC(), enums.HistoryActionIncrease)
		require.NoError(t, repo.WithTx(tx).Append(ctx, &row))
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	rows, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Same(t, repo, repo.WithTx(nil))
}

type failingRepo struct{}

func (failingRepo) List(context.Context, Filter) ([]Row, error) {
	return nil, errors.New("connection refused")
}

func TestListWrapsRepositoryErrors(t *testing.T) {
	svc, err := NewService(failingRepo{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), Filter{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePersistence))
}
