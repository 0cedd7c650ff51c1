package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	StatusHeader   = "Import Status"
	StatusImported = "Successfully Imported"
)

// RowError fails one row with a status written next to it.
type RowError struct {
	Status string
}

func (e *RowError) Error() string { return e.Status }

// Fail returns a RowError with status.
func Fail(status string) error {
	return &RowError{Status: status}
}

// Sheet is the first worksheet of an uploaded workbook.
type Sheet struct {
	f    *excelize.File
	name string
	rows [][]string
}

// OpenSheet reads an xlsx workbook from r.
func OpenSheet(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	name := f.GetSheetName(0)
	if name == "" {
		f.Close()
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return &Sheet{f: f, name: name, rows: rows}, nil
}

func (s *Sheet) Close() error { return s.f.Close() }

// Row is one data row. Columns are 1-based as in the sheet.
type Row struct {
	Number int
	cells  []string
}

func (r Row) Text(col int) string {
	if col < 1 || col > len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[col-1])
}

func (r Row) Empty() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r Row) Uint(col int) (uint, error) {
	f, err := r.Float(col)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint(f)) {
		return 0, fmt.Errorf("column %d: %q is not a whole number", col, r.Text(col))
	}
	return uint(f), nil
}

func (r Row) Int(col int) (int, error) {
	f, err := r.Float(col)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("column %d: %q is not a whole number", col, r.Text(col))
	}
	return int(f), nil
}

func (r Row) Float(col int) (float64, error) {
	s := r.Text(col)
	if s == "" {
		return 0, fmt.Errorf("column %d is empty", col)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %d: %q is not a number", col, s)
	}
	return f, nil
}

// Time parses DateLayout text, or an Excel date serial when the cell was
// typed as a date.
func (r Row) Time(col int) (time.Time, error) {
	s := r.Text(col)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("column %d: %q is not a %s date", col, s, DateLayout)
}

// ImportSpec describes how rows become entities of type T.
type ImportSpec[T any] struct {
	StatusColumn int
	// Parse returns a RowError for expected failures; any other error is
	// written as "Error: ...".
	Parse func(ctx context.Context, row Row) (T, error)
}

// Result summarizes an import. File is the workbook with statuses filled in.
type Result struct {
	Imported    int
	Failed      int
	CommitError error
	File        []byte
}

// Import parses every data row independently, commits all successful rows
// in one batch and annotates each row with its status.
func Import[T any](ctx context.Context, s *Sheet, spec ImportSpec[T], commit func(context.Context, []T) error) (*Result, error) {
	res := &Result{}
	statuses := map[int]string{}

	var pending []T
	var pendingRows []int
	for i := 1; i < len(s.rows); i++ {
		row := Row{Number: i + 1, cells: s.rows[i]}
		if row.Empty() {
			continue
		}
		item, err := spec.Parse(ctx, row)
		if err != nil {
			statuses[row.Number] = statusOf(err)
			res.Failed++
			continue
		}
		pending = append(pending, item)
		pendingRows = append(pendingRows, row.Number)
		statuses[row.Number] = StatusImported
	}

	if len(pending) > 0 {
		if err := commit(ctx, pending); err != nil {
			logrus.WithError(err).WithField("rows", len(pending)).Error("import: batch commit failed")
			res.CommitError = err
			for _, n := range pendingRows {
				statuses[n] = "Error: " + err.Error()
			}
			res.Failed += len(pending)
		} else {
			res.Imported = len(pending)
		}
	}

	if err := s.setStatus(1, spec.StatusColumn, StatusHeader); err != nil {
		return nil, err
	}
	for n, status := range statuses {
		if err := s.setStatus(n, spec.StatusColumn, status); err != nil {
			return nil, err
		}
	}

	buf, err := s.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	res.File = buf.Bytes()
	return res, nil
}

func (s *Sheet) setStatus(row, col int, status string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.f.SetCellValue(s.name, cell, status)
}

func statusOf(err error) string {
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return rowErr.Status
	}
	return "Error: " + err.Error()
}
