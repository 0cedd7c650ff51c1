package reports

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/metrics"
	"agro_admin/internal/repository"
)

// Importer applies uploaded workbooks to existing rows.
type Importer struct {
	db   *gorm.DB
	refs *dropdown.Resolver
}

func NewImporter(db *gorm.DB, refs *dropdown.Resolver) *Importer {
	return &Importer{db: db, refs: refs}
}

// run executes spec and records the outcome under entity.
func run[T any](ctx context.Context, entity string, s *export.Sheet, spec export.ImportSpec[T], commit func(context.Context, []T) error) (*export.Result, error) {
	res, err := export.Import(ctx, s, spec, commit)
	if err != nil {
		return nil, err
	}
	metrics.ImportRows.WithLabelValues(entity, "imported").Add(float64(res.Imported))
	metrics.ImportRows.WithLabelValues(entity, "failed").Add(float64(res.Failed))
	return res, nil
}

// find loads the row with id or fails the import row with status.
func find[T any](ctx context.Context, store *repository.Store[T], id uint, status string) (*T, error) {
	row, err := store.Find(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, export.Fail(status)
	}
	return row, err
}

// lookup resolves a label or fails the import row with status.
func lookup(ctx context.Context, lk *dropdown.Lookups, src dropdown.Source, label, status string) (uint, error) {
	id, ok, err := lk.ID(ctx, src, label)
	if errors.Is(err, dropdown.ErrAmbiguous) {
		return 0, export.Fail(fmt.Sprintf("More than one match for %q", label))
	}
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, export.Fail(status)
	}
	return id, nil
}

// exists checks a raw foreign key or fails the import row with status.
func exists[T any](ctx context.Context, store *repository.Store[T], id uint, status string) error {
	ok, err := store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return export.Fail(status)
	}
	return nil
}
