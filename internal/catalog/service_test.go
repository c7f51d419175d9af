package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tariffdesk/tariffdesk-backend/internal/testdb"
	"github.com/tariffdesk/tariffdesk-backend/pkg/db/models"
	pkgerrors "github.com/tariffdesk/tariffdesk-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn := testdb.Open(t)
	svc, err := NewService(
		NewClientRepository(conn),
		NewCategoryRepository(conn),
		NewUnitRepository(conn),
		NewItemRepository(conn),
	)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepositories(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil)
	require.Error(t, err)
}

func TestClientLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.CreateClient(ctx, NameInput{Name: "  Acme  "})
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.NotZero(t, created.ID)

	_, err = svc.CreateClient(ctx, NameInput{Name: "Beta"})
	require.NoError(t, err)

	updated, err := svc.UpdateClient(ctx, created.ID, NameInput{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)

	list, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme Corp", list[0].Name)
	assert.Equal(t, "Beta", list[1].Name)

	require.NoError(t, svc.DeleteClient(ctx, created.ID))
	list, err = svc.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateRequiresName(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateUnit(context.Background(), NameInput{Name: "   "})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestMissingRowsReportNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.UpdateCategory(ctx, 404, NameInput{Name: "Ghost"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "update: %v", err)

	err = svc.DeleteUnit(ctx, 404)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "delete: %v", err)

	err = svc.DeleteItem(ctx, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "zero id: %v", err)
}

func TestItemsCarryCategoryName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	logistics, err := svc.CreateCategory(ctx, NameInput{Name: "Logistics"})
	require.NoError(t, err)
	storage, err := svc.CreateCategory(ctx, NameInput{Name: "Storage"})
	require.NoError(t, err)

	pallet, err := svc.CreateItem(ctx, ItemInput{Name: "Pallet", CategoryID: logistics.ID})
	require.NoError(t, err)
	assert.Equal(t, "Logistics", pallet.CategoryName)

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Rack", CategoryID: storage.ID})
	require.NoError(t, err)

	all, err := svc.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.ListItems(ctx, &storage.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Rack", filtered[0].Name)
	assert.Equal(t, "Storage", filtered[0].CategoryName)

	moved, err := svc.UpdateItem(ctx, pallet.ID, ItemInput{Name: "Pallet", CategoryID: storage.ID})
	require.NoError(t, err)
	assert.Equal(t, "Storage", moved.CategoryName)

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Orphan"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type failingClients struct{}

func (failingClients) List(context.Context) ([]models.Client, error) {
	return nil, errors.New("relation \"clients\" does not exist")
}
func (failingClients) FindByID(context.Context, int64) (*models.Client, error) {
	return nil, errors.New("down")
}
func (failingClients) Create(context.Context, *models.Client) error { return errors.New("down") }
func (failingClients) Update(context.Context, int64, map[string]any) error {
	return errors.New("down")
}
func (failingClients) Delete(context.Context, int64) error { return errors.New("down") }

func TestPersistenceErrorsExposeDriverMessage(t *testing.T) {
	conn := testdb.Open(t)
	svc, err := NewService(failingClients{}, NewCategoryRepository(conn), NewUnitRepository(conn), NewItemRepository(conn))
	require.NoError(t, err)

	_, err = svc.ListClients(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodePersistence, typed.Code())
	assert.Equal(t, map[string]any{"driver_message": "relation \"clients\" does not exist"}, typed.Details())
}
