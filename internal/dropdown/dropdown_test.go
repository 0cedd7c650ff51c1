package dropdown

import (
	"context"
	"testing"

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

func labels(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Label
	}
	return out
}

func TestPin(t *testing.T) {
	opts := []Option{{ID: 2, Label: "A"}, {ID: 1, Label: "B"}, {ID: 3, Label: "C"}}

	assert.Equal(t, []string{"A", "B", "C"}, labels(Pin(opts, 2)))
	assert.Equal(t, []string{"C", "A", "B"}, labels(Pin(opts, 3)))
	assert.Equal(t, []string{"A", "B", "C"}, labels(Pin(opts, 99)), "missing default keeps order")
	assert.Empty(t, Pin(nil, 1))
}

func TestOptionsPinnedDefaultFirst(t *testing.T) {
	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	require.NoError(t, db.Create(&[]models.Species{
		{ID: 1, Name: "B"}, {ID: 2, Name: "A"}, {ID: 3, Name: "C"},
	}).Error)

	settings := config.AppSettings{Defaults: map[string]uint{config.KindSpecies: 2}}
	opts, err := NewResolver(db, settings).Options(context.Background(), Species)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, labels(opts))

	settings.Defaults[config.KindSpecies] = 3
	opts, err = NewResolver(db, settings).Options(context.Background(), Species)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, labels(opts))
	assert.Len(t, opts, 3, "default not duplicated")
}

func TestOptionsIDLabelledSources(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db, config.DefaultSettings())

	crops, err := r.Options(context.Background(), Crops)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, labels(crops))

	workers, err := r.Options(context.Background(), Workers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Horvat", "Ivan Kovac", "Marko Babic"}, labels(workers))
	assert.Equal(t, uint(1), workers[0].ID)
}

func TestLookup(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db, config.DefaultSettings())
	ctx := context.Background()

	id, ok, err := r.Lookup(ctx, Species, "Corn")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(2), id)

	_, ok, err = r.Lookup(ctx, Species, "Rice")
	require.NoError(t, err)
	assert.False(t, ok)

	lk := r.NewLookups()
	id, ok, err = lk.ID(ctx, Workers, "Marko Babic")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(3), id)

	_, ok, err = lk.ID(ctx, Workers, "Petra Novak")
	require.NoError(t, err)
	assert.False(t, ok, "people without a worker row are not workers")
}

func TestSearch(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db, config.DefaultSettings())
	ctx := context.Background()

	opts, err := r.Search(ctx, WorkersByName, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 Ana Horvat", "2 Ivan Kovac"}, labels(opts))

	opts, err = r.Search(ctx, HarvestsByCrop, "3", 10)
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, uint(1), opts[0].ID)

	opts, err = r.Search(ctx, WorkersByName, "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestLookupAmbiguousLabel(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Person{ID: 6, Name: "Ana Horvat"}).Error)
	r := NewResolver(db, config.DefaultSettings())
	ctx := context.Background()

	_, ok, err := r.Lookup(ctx, People, "Ana Horvat")
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.False(t, ok)

	lk := r.NewLookups()
	for i := 0; i < 2; i++ {
		_, ok, err = lk.ID(ctx, People, "Ana Horvat")
		assert.ErrorIs(t, err, ErrAmbiguous)
		assert.False(t, ok)
	}

	id, ok, err := lk.ID(ctx, People, "Petra Novak")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(4), id)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Person{ID: 6, Name: "Under_score"}).Error)
	require.NoError(t, db.Create(&models.Worker{PersonID: 6, WorkerTypeID: 1}).Error)
	r := NewResolver(db, config.DefaultSettings())
	ctx := context.Background()

	opts, err := r.Search(ctx, WorkersByName, "_", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"6 Under_score"}, labels(opts))

	opts, err = r.Search(ctx, WorkersByName, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, opts)
}
