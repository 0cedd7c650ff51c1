// Package viewmodels builds flat, read-only display records from explicit
// joined queries.
package viewmodels

import (
	"context"

	"gorm.io/gorm"

	"agro_admin/internal/paging"
)

// Unknown stands in for a reference that no longer resolves.
const Unknown = "Unknown"

// Projection is a joined read of one entity table into records of type V.
type Projection[V any] struct {
	Table   string
	Key     string // qualified primary key, default order
	Columns string // SELECT list
	Joins   []string
	Sorts   paging.SortMap
	// Finish, when set, fills derived fields after scanning.
	Finish func(*V)
}

func (p Projection[V]) query(ctx context.Context, db *gorm.DB) *gorm.DB {
	q := db.WithContext(ctx).Table(p.Table).Select(p.Columns)
	for _, j := range p.Joins {
		q = q.Joins(j)
	}
	return q
}

func (p Projection[V]) scan(q *gorm.DB) ([]V, error) {
	rows := []V{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if p.Finish != nil {
		for i := range rows {
			p.Finish(&rows[i])
		}
	}
	return rows, nil
}

// Count returns the number of rows in the base table.
func (p Projection[V]) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Table(p.Table).Count(&n).Error
	return n, err
}

// Page returns the rows of info's page in info's sort order.
// Ties, and unmapped sorts, fall back to primary key order so pages never
// overlap.
func (p Projection[V]) Page(ctx context.Context, db *gorm.DB, info paging.Info) ([]V, error) {
	q := p.Sorts.Apply(p.query(ctx, db), info.Sort, info.Ascending).Order(p.Key)
	return p.scan(q.Scopes(paging.Paginate(info)))
}

// All returns every row ordered by primary key.
func (p Projection[V]) All(ctx context.Context, db *gorm.DB) ([]V, error) {
	return p.scan(p.query(ctx, db).Order(p.Key))
}

// Where returns the rows matching cond ordered by primary key.
func (p Projection[V]) Where(ctx context.Context, db *gorm.DB, cond string, args ...interface{}) ([]V, error) {
	return p.scan(p.query(ctx, db).Where(cond, args...).Order(p.Key))
}

// One returns the row with primary key id or gorm.ErrRecordNotFound.
func (p Projection[V]) One(ctx context.Context, db *gorm.DB, id uint) (*V, error) {
	rows, err := p.scan(p.query(ctx, db).Where(p.Key+" = ?", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}
