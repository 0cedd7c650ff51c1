package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// DateLayout is the spreadsheet date format (MM/dd/yyyy HH:mm:ss).
const DateLayout = "01/02/2006 15:04:05"

const (
	maxSheetName = 31
	headerFill   = "D3D3D3"
	colWidth     = 20
)

// DetailSheet is one parent record followed by its children.
type DetailSheet struct {
	Name         string
	ParentHeader []string
	Parent       []interface{}
	ChildHeader  []string
	Children     [][]interface{}
}

// WriteSimple writes a single sheet: header on row 1, data from row 2.
func WriteSimple(title, sheet string, header []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := SheetName(sheet, nil)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, err
	}
	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, name, 1, stringsToCells(header)); err != nil {
		return nil, err
	}
	if err := styleRow(f, name, 1, len(header), style); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, name, i+2, row); err != nil {
			return nil, err
		}
	}
	if err := widen(f, name, len(header)); err != nil {
		return nil, err
	}
	return finish(f, title)
}

// WriteDetails writes one sheet per parent. The parent block takes rows 1
// and 2, the child header row 4 and the children start on row 5.
func WriteDetails(title string, sheets []DetailSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	used := map[string]bool{}
	first := f.GetSheetName(0)
	for i, s := range sheets {
		name := SheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		if err := writeRow(f, name, 1, stringsToCells(s.ParentHeader)); err != nil {
			return nil, err
		}
		if err := styleRow(f, name, 1, len(s.ParentHeader), style); err != nil {
			return nil, err
		}
		if err := writeRow(f, name, 2, s.Parent); err != nil {
			return nil, err
		}
		if err := writeRow(f, name, 4, stringsToCells(s.ChildHeader)); err != nil {
			return nil, err
		}
		if err := styleRow(f, name, 4, len(s.ChildHeader), style); err != nil {
			return nil, err
		}
		for j, child := range s.Children {
			if err := writeRow(f, name, j+5, child); err != nil {
				return nil, err
			}
		}
		width := len(s.ParentHeader)
		if len(s.ChildHeader) > width {
			width = len(s.ChildHeader)
		}
		if err := widen(f, name, width); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return finish(f, title)
}

// SheetName strips characters Excel rejects, truncates to 31 characters and
// keeps names unique within used.
func SheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, name)
	clean = strings.Trim(strings.TrimSpace(clean), "'")
	if clean == "" {
		clean = "Sheet"
	}
	clean = truncate(clean, maxSheetName)

	if used == nil {
		return clean
	}
	candidate := clean
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(clean, maxSheetName-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	if len(cells) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	if cols == 0 {
		return nil
	}
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func widen(f *excelize.File, sheet string, cols int) error {
	if cols == 0 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, colWidth)
}

func finish(f *excelize.File, title string) ([]byte, error) {
	if err := f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "agro_admin"}); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stringsToCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
