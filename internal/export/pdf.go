// Package export renders projected records as PDF reports and xlsx
// workbooks, and reads xlsx workbooks back.
package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
)

// Column is one column of a report. Width is a relative weight.
type Column struct {
	Header string
	Width  float64
	Align  string // "L", "C" or "R"; "L" when empty
}

// Report is a titled table of already formatted cells.
type Report struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 6.0
	pdfNumberCol  = 1.0
	pdfFooterDate = "02.01.2006."
)

// RenderPDF draws r as an A4 table with a running row number column, the
// header row repeated on each page and a generated-date footer.
func RenderPDF(r Report, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin+12, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin+8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	widths := columnWidths(r.Columns, pageW-2*pdfMargin)

	pdf.SetHeaderFunc(func() {
		pdf.SetY(pdfMargin)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(r.Title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
		headerRow(pdf, tr, r.Columns, widths)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-(pdfMargin + 5))
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, "Generated "+generated.Format(pdfFooterDate), "", 0, "L", false, 0, "")
		pdf.SetX(pdfMargin)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	pdf.SetFont("Arial", "", 9)
	for i, row := range r.Rows {
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(widths[0], pdfRowHeight, strconv.Itoa(i+1), "1", 0, "R", fill, 0, "")
		for j, col := range r.Columns {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			pdf.CellFormat(widths[j+1], pdfRowHeight, tr(cell), "1", 0, align(col), fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if pdf.Err() {
		return nil, pdf.Error()
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headerRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []Column, widths []float64) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(211, 211, 211)
	pdf.CellFormat(widths[0], 7, "#", "1", 0, "C", true, 0, "")
	for j, col := range cols {
		pdf.CellFormat(widths[j+1], 7, tr(col.Header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
}

// columnWidths scales the weights, row number column first, to total.
func columnWidths(cols []Column, total float64) []float64 {
	sum := pdfNumberCol
	for _, c := range cols {
		sum += weight(c)
	}
	widths := make([]float64, len(cols)+1)
	widths[0] = total * pdfNumberCol / sum
	for i, c := range cols {
		widths[i+1] = total * weight(c) / sum
	}
	return widths
}

func weight(c Column) float64 {
	if c.Width <= 0 {
		return 1
	}
	return c.Width
}

func align(c Column) string {
	if c.Align == "" {
		return "L"
	}
	return c.Align
}
