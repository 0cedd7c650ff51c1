package viewmodels

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agro_admin/internal/config"
	"agro_admin/internal/paging"
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

func cropIDs(rows []CropView) []uint {
	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestCropPageSortedBySpeciesKey(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := Crops.Page(ctx, db, paging.Info{CurrentPage: 1, Sort: 2, Ascending: true, ItemsPerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, cropIDs(rows))
	assert.Equal(t, "Wheat", rows[0].SpeciesName)

	rows, err = Crops.Page(ctx, db, paging.Info{CurrentPage: 1, Sort: 2, Ascending: false, ItemsPerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 2, 1}, cropIDs(rows))

	rows, err = Crops.Page(ctx, db, paging.Info{CurrentPage: 2, Sort: 1, Ascending: false, ItemsPerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, cropIDs(rows))
}

// Orders 1 and 3 belong to Petra Novak (4), order 2 to Luka Maric (5):
// ordering by key and by name disagree.
func TestForeignKeySortUsesKeyNotName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := Orders.Page(ctx, db, paging.Info{CurrentPage: 1, Sort: 3, Ascending: true, ItemsPerPage: 10})
	require.NoError(t, err)
	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []uint{1, 3, 2}, ids)

	plots, err := Plots.Page(ctx, db, paging.Info{CurrentPage: 1, Sort: 2, Ascending: false, ItemsPerPage: 10})
	require.NoError(t, err)
	require.Len(t, plots, 3)
	assert.Equal(t, uint(5), plots[0].PersonID)
	assert.Equal(t, "Luka Maric", plots[0].PersonName)
}

func TestWorkerSortByName(t *testing.T) {
	db := newTestDB(t)

	rows, err := Workers.Page(context.Background(), db, paging.Info{CurrentPage: 1, Sort: 2, Ascending: false, ItemsPerPage: 10})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Marko Babic", rows[0].PersonName)
	assert.Equal(t, "Ana Horvat", rows[2].PersonName)
}

func TestCropProjectionCarriesIDsAndNames(t *testing.T) {
	db := newTestDB(t)

	crop, err := Crops.One(context.Background(), db, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), crop.SpeciesID)
	assert.Equal(t, "Wheat", crop.SpeciesName)
	assert.Equal(t, "Sowing", crop.TaskLabel)
	assert.Equal(t, "Growing", crop.StatusName)
	assert.Equal(t, "Ana Horvat", crop.PersonName)
	assert.Equal(t, 120, crop.Quantity)
	assert.True(t, crop.PlantingDate.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestMissingReferenceIsUnknown(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec("UPDATE crops SET species_id = 99 WHERE id = 2").Error)

	crop, err := Crops.One(context.Background(), db, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(99), crop.SpeciesID)
	assert.Equal(t, Unknown, crop.SpeciesName)
}

func TestOneNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := Harvests.One(context.Background(), db, 404)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestHarvestWorkerNameTwoHops(t *testing.T) {
	db := newTestDB(t)

	h, err := Harvests.One(context.Background(), db, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(3), h.WorkerID)
	assert.Equal(t, "Marko Babic", h.WorkerName)
}

func TestPlotLocation(t *testing.T) {
	db := newTestDB(t)

	plots, err := Plots.All(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, plots, 3)
	assert.NotEmpty(t, plots[0].Location)
	assert.Empty(t, plots[2].Location)
	assert.Equal(t, "Good", plots[0].SoilQualityName)
}

func TestDetails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	h, err := FindHarvestDetail(ctx, db, 1)
	require.NoError(t, err)
	require.Len(t, h.Orders, 2)
	assert.Equal(t, uint(1), h.Orders[0].ID)
	assert.Equal(t, uint(2), h.Orders[1].ID)

	w, err := FindWorkerDetail(ctx, db, 1)
	require.NoError(t, err)
	require.Len(t, w.Tasks, 1)
	assert.Equal(t, "Plowing", w.Tasks[0].Label)

	_, err = FindCropDetail(ctx, db, 77)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	crops, err := AllCropDetails(ctx, db)
	require.NoError(t, err)
	require.Len(t, crops, 3)
	assert.Len(t, crops[0].Plots, 2)
	assert.NotNil(t, crops[2].Plots)
	assert.Empty(t, crops[2].Plots)
}
