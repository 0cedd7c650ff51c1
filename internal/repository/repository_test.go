package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agro_admin/internal/config"
	"agro_admin/internal/models"
	"agro_admin/internal/seed"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	require.NoError(t, seed.Demo(context.Background(), db))
	return db
}

func orderKey(o *models.Order) *uint { return &o.ID }

func TestReconcile(t *testing.T) {
	submitted := []models.Order{
		{ID: 1, Quantity: 99},
		{ID: 0, Quantity: 5},
		{ID: 42, Quantity: 7},
	}

	d := Reconcile([]uint{1, 2}, submitted, orderKey)

	require.Len(t, d.Update, 1)
	assert.Equal(t, uint(1), d.Update[0].ID)
	assert.Equal(t, 99.0, d.Update[0].Quantity)

	require.Len(t, d.Insert, 2)
	assert.Zero(t, d.Insert[0].ID)
	assert.Zero(t, d.Insert[1].ID, "unknown ids are inserted as new rows")

	assert.Equal(t, []uint{2}, d.Delete)
	assert.False(t, d.Empty())
	assert.True(t, Reconcile[models.Order](nil, nil, orderKey).Empty())
}

func TestReconcileDuplicateKeyInsertsSecond(t *testing.T) {
	d := Reconcile([]uint{1}, []models.Order{{ID: 1}, {ID: 1}}, orderKey)
	assert.Len(t, d.Update, 1)
	assert.Len(t, d.Insert, 1)
	assert.Empty(t, d.Delete)
}

func TestApplyDiff(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	date := time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC)

	// harvest 1 owns orders 1 and 2
	submitted := []models.Order{
		{ID: 1, HarvestID: 1, PersonID: 4, Quantity: 55, Price: 130, OrderDate: date},
		{HarvestID: 1, PersonID: 5, Quantity: 10, Price: 20, OrderDate: date},
	}
	d := Reconcile([]uint{1, 2}, submitted, orderKey)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ApplyDiff(tx, d, "id")
	})
	require.NoError(t, err)

	var orders []models.Order
	require.NoError(t, db.Where("harvest_id = ?", 1).Order("id").Find(&orders).Error)
	require.Len(t, orders, 2)
	assert.Equal(t, uint(1), orders[0].ID)
	assert.Equal(t, 55.0, orders[0].Quantity)
	assert.NotEqual(t, uint(2), orders[1].ID)
	assert.Equal(t, 10.0, orders[1].Quantity)
}

func TestApplyEmptyDiffWritesNothing(t *testing.T) {
	db := newTestDB(t)

	// harvest 3 has no orders and none were submitted
	d := Reconcile[models.Order](nil, nil, orderKey)
	require.True(t, d.Empty())
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ApplyDiff(tx, d, "id")
	}))

	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	assert.Equal(t, int64(3), n)
}

func TestStoreCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tasks := NewStore[models.Task](db)

	task := &models.Task{Label: "Pruning", TaskStatusID: 1, PersonID: 2}
	require.NoError(t, tasks.Create(ctx, task))
	assert.NotZero(t, task.ID)

	got, err := tasks.Find(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pruning", got.Label)

	got.Label = "Pruning trees"
	require.NoError(t, tasks.Update(ctx, got))

	ok, err := tasks.Exists(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := tasks.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.NoError(t, tasks.Delete(ctx, task.ID))
	assert.True(t, errors.Is(tasks.Delete(ctx, task.ID), ErrNotFound))

	_, err = tasks.Find(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkerStoreKey(t *testing.T) {
	db := newTestDB(t)
	workers := NewStore[models.Worker](db).WithKey("person_id")

	w, err := workers.Find(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), w.WorkerTypeID)
}

func TestDeleteParentWithChildrenFails(t *testing.T) {
	db := newTestDB(t)
	harvests := NewStore[models.Harvest](db)

	err := harvests.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, Describe(err), "referenced")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "record not found", Describe(ErrNotFound))
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}
