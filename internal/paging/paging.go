// Package paging turns page/sort/ascending request parameters into
// ordered, sliced gorm queries.
package paging

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Info describes one page of a sorted list.
type Info struct {
	CurrentPage  int   `json:"current_page"`
	Sort         int   `json:"sort"`
	Ascending    bool  `json:"ascending"`
	ItemsPerPage int   `json:"items_per_page"`
	TotalItems   int64 `json:"total_items"`
}

// TotalPages is ceil(TotalItems / ItemsPerPage).
func (i Info) TotalPages() int {
	if i.ItemsPerPage <= 0 {
		return 0
	}
	return int((i.TotalItems + int64(i.ItemsPerPage) - 1) / int64(i.ItemsPerPage))
}

// OutOfRange reports whether CurrentPage falls outside 1..TotalPages.
// An empty list has no valid page, so every page is out of range.
func (i Info) OutOfRange() bool {
	return i.CurrentPage < 1 || i.CurrentPage > i.TotalPages()
}

// Offset is the number of rows skipped before CurrentPage.
func (i Info) Offset() int {
	if i.CurrentPage < 1 {
		return 0
	}
	return (i.CurrentPage - 1) * i.ItemsPerPage
}

// SortMap maps a 1-based sort index to a qualified column expression.
type SortMap map[int]string

// Column returns the column for sort, if it is mapped.
func (m SortMap) Column(sort int) (string, bool) {
	col, ok := m[sort]
	return col, ok
}

// Apply orders db by the mapped column. Unmapped indices leave db untouched.
func (m SortMap) Apply(db *gorm.DB, sort int, ascending bool) *gorm.DB {
	col, ok := m.Column(sort)
	if !ok {
		return db
	}
	return db.Order(clause.OrderByColumn{
		Column: clause.Column{Name: col, Raw: true},
		Desc:   !ascending,
	})
}

// Paginate is a gorm scope selecting the rows of info.CurrentPage.
func Paginate(info Info) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(info.Offset()).Limit(info.ItemsPerPage)
	}
}
