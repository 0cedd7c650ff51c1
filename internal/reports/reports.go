// Package reports binds each entity's projection to its PDF, xlsx and
// import layouts.
package reports

import (
	"time"

	"agro_admin/internal/export"
)

// Table is the export layout of one view type.
type Table[V any] struct {
	Title   string // PDF title
	Sheet   string // xlsx sheet name
	Columns []export.Column
	Cells   func(V) []interface{}
}

func (t Table[V]) Header() []string {
	return export.Headers(t.Columns)
}

// PDF renders rows as a report generated at now.
func (t Table[V]) PDF(rows []V, now time.Time) ([]byte, error) {
	r := export.Report{Title: t.Title, Columns: t.Columns, Rows: make([][]string, len(rows))}
	for i, v := range rows {
		r.Rows[i] = export.PDFRow(t.Cells(v))
	}
	return export.RenderPDF(r, now)
}

// Excel writes rows to a single-sheet workbook.
func (t Table[V]) Excel(rows []V) ([]byte, error) {
	out := make([][]interface{}, len(rows))
	for i, v := range rows {
		out[i] = export.ExcelRow(t.Cells(v))
	}
	return export.WriteSimple(t.Title, t.Sheet, t.Header(), out)
}

// StatusColumn is the column right after the last data column.
func (t Table[V]) StatusColumn() int {
	return len(t.Columns) + 1
}

// detailSheet builds one parent/children sheet.
func detailSheet[P, C any](name string, parent Table[P], p P, child Table[C], children []C) export.DetailSheet {
	s := export.DetailSheet{
		Name:         name,
		ParentHeader: parent.Header(),
		Parent:       export.ExcelRow(parent.Cells(p)),
		ChildHeader:  child.Header(),
		Children:     make([][]interface{}, len(children)),
	}
	for i, c := range children {
		s.Children[i] = export.ExcelRow(child.Cells(c))
	}
	return s
}
