package export

import (
	"fmt"
	"strconv"
	"time"
)

const pdfDate = "02.01.2006."

// ExcelValue converts a cell for xlsx output. Dates become DateLayout text
// so that they import back unchanged.
func ExcelValue(v interface{}) interface{} {
	switch x := v.(type) {
	case time.Time:
		return x.Format(DateLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(DateLayout)
	}
	return v
}

// ExcelRow applies ExcelValue to every cell.
func ExcelRow(cells []interface{}) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = ExcelValue(c)
	}
	return out
}

// PDFText formats a cell for the PDF report.
func PDFText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(pdfDate)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// PDFRow applies PDFText to every cell.
func PDFRow(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = PDFText(c)
	}
	return out
}

// Headers returns the column headers in order.
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}
