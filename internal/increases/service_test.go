package increases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tariffdesk/tariffdesk-backend/internal/testdb"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
	"github.com/tariffdesk/tariffdesk-backend/pkg/enums"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func pct(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func newTestService(t *testing.T, conn *gorm.DB, opts ...Option) Service {
	t.Helper()
	opts = append(opts, WithClock(func() time.Time { return fixedNow }))
	svc, err := NewService(NewRepository(conn), db.Wrap(conn), nil, opts...)
	require.NoError(t, err)
	return svc
}

func loadTariff(t *testing.T, conn *gorm.DB, id int64) models.Tariff {
	t.Helper()
	var row models.Tariff
	require.NoError(t, conn.Where("id = ?", id).Take(&row).Error)
	return row
}

func loadHistory(t *testing.T, conn *gorm.DB) []models.HistoricalTariff {
	t.Helper()
	var rows []models.HistoricalTariff
	require.NoError(t, conn.Order("history_id ASC").Find(&rows).Error)
	return rows
}

func TestApplyAcmePalletScenario(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	tariff := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), testdb.DatePtr(2025, time.December, 31))

	res, err := newTestService(t, conn).Apply(ctx, Request{
		Criterion:   "client",
		SelectionID: f.ClientID,
		DateFrom:    testdb.DatePtr(2026, time.January, 1),
		DateTo:      testdb.DatePtr(2026, time.December, 31),
		Percentage:  pct("10"),
		User:        "maria",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.UpdatedCount)

	updated := loadTariff(t, conn, tariff.ID)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("110.00")), "price %s", updated.Price)
	assert.True(t, updated.IncrementPct.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "2026-01-01", updated.ValidFrom.String())
	require.NotNil(t, updated.ValidTo)
	assert.Equal(t, "2026-12-31", updated.ValidTo.String())

	hist := loadHistory(t, conn)
	require.Len(t, hist, 1)
	assert.Equal(t, tariff.ID, hist[0].TariffID)
	assert.True(t, hist[0].Price.Equal(decimal.NewFromInt(100)), "history price %s", hist[0].Price)
	assert.Equal(t, "2025-01-01", hist[0].ValidFrom.String())
	assert.Equal(t, "maria", hist[0].UserName)
	assert.Equal(t, enums.HistoryActionIncrease, hist[0].Action)
	assert.True(t, hist[0].MovedAt.Equal(fixedNow))
}

func TestApplyTwiceCompounds(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	tariff := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), nil)
	svc := newTestService(t, conn)

	req := Request{Criterion: "unit", SelectionID: f.UnitID, Percentage: pct("10"), User: "maria"}
	for i := 0; i < 2; i++ {
		res, err := svc.Apply(ctx, req)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.UpdatedCount)
	}

	updated := loadTariff(t, conn, tariff.ID)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(121)), "price %s", updated.Price)
	assert.Equal(t, "2025-01-01", updated.ValidFrom.String(), "omitted dates keep the current value")
	assert.Nil(t, updated.ValidTo)

	hist := loadHistory(t, conn)
	require.Len(t, hist, 2)
	assert.True(t, hist[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, hist[1].Price.Equal(decimal.NewFromInt(110)))
}

func TestApplyHistoryMatchesUpdatedRows(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	acme := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	beta := testdb.Seed(t, conn, "Beta", "Storage", "Rack", "Kilo")

	item2 := models.Item{Name: "Box", CategoryID: acme.CategoryID}
	require.NoError(t, conn.Create(&item2).Error)
	acmeBox := acme
	acmeBox.ItemID = item2.ID
	betaBox := beta
	betaBox.ItemID = item2.ID

	before := map[int64]decimal.Decimal{}
	for _, row := range []models.Tariff{
		testdb.Tariff(t, conn, acme, "100", testdb.Date(2025, time.January, 1), nil),
		testdb.Tariff(t, conn, acmeBox, "50.55", testdb.Date(2025, time.January, 1), nil),
		testdb.Tariff(t, conn, betaBox, "80", testdb.Date(2025, time.January, 1), nil),
	} {
		before[row.ID] = row.Price
	}
	untouched := testdb.Tariff(t, conn, beta, "999", testdb.Date(2025, time.January, 1), nil)

	res, err := newTestService(t, conn).Apply(ctx, Request{
		Criterion:   "category",
		SelectionID: acme.CategoryID,
		Percentage:  pct("3.5"),
		User:        "maria",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.UpdatedCount)

	hist := loadHistory(t, conn)
	require.Len(t, hist, int(res.UpdatedCount))
	for _, h := range hist {
		prev, ok := before[h.TariffID]
		require.True(t, ok, "unexpected history for tariff %d", h.TariffID)
		assert.True(t, h.Price.Equal(prev), "history price %s, want %s", h.Price, prev)
		now := loadTariff(t, conn, h.TariffID)
		assert.True(t, now.Price.Equal(IncreasedPrice(prev, decimal.RequireFromString("3.5"))))
	}
	assert.True(t, loadTariff(t, conn, untouched.ID).Price.Equal(decimal.NewFromInt(999)))
}

func TestApplySecondaryClientFilter(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	acme := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	beta := acme
	betaClient := models.Client{Name: "Beta"}
	require.NoError(t, conn.Create(&betaClient).Error)
	beta.ClientID = betaClient.ID

	acmeTariff := testdb.Tariff(t, conn, acme, "100", testdb.Date(2025, time.January, 1), nil)
	betaTariff := testdb.Tariff(t, conn, beta, "100", testdb.Date(2025, time.January, 1), nil)

	res, err := newTestService(t, conn).Apply(ctx, Request{
		Criterion:     "item",
		SelectionID:   acme.ItemID,
		IncludeClient: true,
		ClientID:      betaClient.ID,
		Percentage:    pct("20"),
		User:          "maria",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.UpdatedCount)
	assert.True(t, loadTariff(t, conn, acmeTariff.ID).Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, loadTariff(t, conn, betaTariff.ID).Price.Equal(decimal.NewFromInt(120)))
}

func TestApplyZeroMatchesWritesNothing(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	tariff := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), nil)

	res, err := newTestService(t, conn).Apply(ctx, Request{
		Criterion:   "client",
		SelectionID: f.ClientID + 1000,
		Percentage:  pct("10"),
		User:        "maria",
	})
	require.NoError(t, err)
	assert.Zero(t, res.UpdatedCount)
	assert.Empty(t, loadHistory(t, conn))
	assert.True(t, loadTariff(t, conn, tariff.ID).Price.Equal(decimal.NewFromInt(100)))
}

func TestApplyValidatesBeforeTouchingTheDatabase(t *testing.T) {
	repo := &recordingRepo{}
	svc, err := NewService(repo, &recordingTx{}, nil)
	require.NoError(t, err)

	cases := map[string]Request{
		"criterion":    {Criterion: "warehouse", SelectionID: 1, Percentage: pct("1"), User: "u"},
		"selection_id": {Criterion: "client", Percentage: pct("1"), User: "u"},
		"percentage":   {Criterion: "client", SelectionID: 1, User: "u"},
		"user":         {Criterion: "client", SelectionID: 1, Percentage: pct("1"), User: "  "},
		"client_id":    {Criterion: "unit", SelectionID: 1, IncludeClient: true, Percentage: pct("1"), User: "u"},
		"date_to": {
			Criterion: "client", SelectionID: 1, Percentage: pct("1"), User: "u",
			DateFrom: testdb.DatePtr(2025, time.May, 1), DateTo: testdb.DatePtr(2025, time.April, 1),
		},
	}
	for field, req := range cases {
		_, err := svc.Apply(context.Background(), req)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, field)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), field)
		assert.Contains(t, typed.Details().(map[string]string), field)
	}
	assert.Zero(t, repo.calls)
}

func TestApplyRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	first := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), nil)
	second := testdb.Tariff(t, conn, f, "200", testdb.Date(2025, time.January, 1), nil)

	repo := &failOnSecondUpdate{Repository: NewRepository(conn)}
	svc, err := NewService(repo, db.Wrap(conn), nil)
	require.NoError(t, err)

	_, err = svc.Apply(ctx, Request{Criterion: "client", SelectionID: f.ClientID, Percentage: pct("10"), User: "maria"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodePersistence, typed.Code())

	assert.True(t, loadTariff(t, conn, first.ID).Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, loadTariff(t, conn, second.ID).Price.Equal(decimal.NewFromInt(200)))
	assert.Empty(t, loadHistory(t, conn))
}

func TestApplyRejectsInvertedValidityInsideTransaction(t *testing.T) {
	ctx := context.Background()
	conn := testdb.Open(t)
	f := testdb.Seed(t, conn, "Acme", "Logistics", "Pallet", "Unit")
	tariff := testdb.Tariff(t, conn, f, "100", testdb.Date(2025, time.January, 1), testdb.DatePtr(2025, time.March, 1))

	_, err := newTestService(t, conn).Apply(ctx, Request{
		Criterion: "client", SelectionID: f.ClientID, Percentage: pct("10"), User: "maria",
		DateFrom: testdb.DatePtr(2025, time.June, 1),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "%v", err)
	assert.True(t, loadTariff(t, conn, tariff.ID).Price.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, loadHistory(t, conn))
}

func TestIncreasedPriceRounding(t *testing.T) {
	cases := []struct{ price, pct, want string }{
		{"100", "10", "110"},
		{"110", "10", "121"},
		{"50.55", "3.5", "52.32"},
		{"19.99", "-15", "16.99"},
		{"0.05", "10", "0.06"},
	}
	for _, tc := range cases {
		got := IncreasedPrice(decimal.RequireFromString(tc.price), decimal.RequireFromString(tc.pct))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "%s +%s%%: got %s want %s", tc.price, tc.pct, got, tc.want)
	}
}

type recordingRepo struct {
	calls int
}

func (r *recordingRepo) WithTx(*gorm.DB) Repository { return r }
func (r *recordingRepo) LockMatching(context.Context, Selection) ([]models.Tariff, error) {
	r.calls++
	return nil, nil
}
func (r *recordingRepo) AppendHistory(context.Context, *models.HistoricalTariff) error {
	r.calls++
	return nil
}
func (r *recordingRepo) ApplyIncrease(context.Context, int64, decimal.Decimal, decimal.Decimal, dbtypes.Date, *dbtypes.Date) error {
	r.calls++
	return nil
}

type recordingTx struct{}

func (recordingTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type failOnSecondUpdate struct {
	Repository
	updates int
}

func (f *failOnSecondUpdate) WithTx(tx *gorm.DB) Repository {
	f.Repository = f.Repository.WithTx(tx)
	return f
}

func (f *failOnSecondUpdate) ApplyIncrease(ctx context.Context, id int64, price, pct decimal.Decimal, from dbtypes.Date, to *dbtypes.Date) error {
	f.updates++
	if f.updates == 2 {
		return errors.New("deadlock detected")
	}
	return f.Repository.ApplyIncrease(ctx, id, price, pct, from, to)
}
