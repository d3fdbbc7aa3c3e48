// Package workbook reads spreadsheet inputs into plain string grids.
//
// It wraps excelize so that loaders see raw cell values (no display
// formatting applied), locate header rows, and pick data sheets through an
// explicit ranked list of matchers.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
)

// Source is a readable spreadsheet.
type Source interface {
	Name() string
	SheetNames() []string
	// Rows reads a sheet; maxNonBlank > 0 stops with ErrTooManyRows once
	// more non-blank rows than that have been seen
	Rows(sheet string, maxNonBlank int) ([][]string, error)
	// Head reads at most the first n rows of a sheet
	Head(sheet string, n int) ([][]string, error)
	Grid(sheet string) ([][]core.Value, error)
}

// Workbook is an opened spreadsheet input backed by excelize.
type Workbook struct {
	name string
	f    *excelize.File
}

// Open opens a workbook from disk.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{name: path, f: f}, nil
}

// OpenReader reads a workbook from r. The name is used in error messages.
func OpenReader(name string, r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook %s: %w", name, err)
	}
	return &Workbook{name: name, f: f}, nil
}

// FromFile wraps an already opened excelize file.
func FromFile(name string, f *excelize.File) *Workbook {
	return &Workbook{name: name, f: f}
}

// Name returns the name the workbook was opened with.
func (w *Workbook) Name() string { return w.name }

// File exposes the underlying excelize file (used to copy styles).
func (w *Workbook) File() *excelize.File { return w.f }

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// ErrTooManyRows reports a sheet with more non-blank rows than allowed.
var ErrTooManyRows = errors.New("too many rows")

// Rows returns the raw cell values of a sheet. Rows are not padded; callers
// use Cell to index safely. The sheet is streamed, so a maxNonBlank cap also
// bounds how much of an oversized sheet is held in memory.
func (w *Workbook) Rows(sheet string, maxNonBlank int) ([][]string, error) {
	return w.read(sheet, 0, maxNonBlank)
}

// Head returns at most the first n rows of a sheet.
func (w *Workbook) Head(sheet string, n int) ([][]string, error) {
	if n <= 0 {
		return nil, nil
	}
	return w.read(sheet, n, 0)
}

func (w *Workbook) read(sheet string, maxRows, maxNonBlank int) ([][]string, error) {
	it, err := w.f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer func() { _ = it.Close() }()

	var rows [][]string
	nonBlank := 0
	for it.Next() {
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
		row, err := it.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if !IsBlankRow(row) {
			nonBlank++
			if maxNonBlank > 0 && nonBlank > maxNonBlank {
				return nil, fmt.Errorf("sheet %q has more than %d rows: %w", sheet, maxNonBlank, ErrTooManyRows)
			}
		}
		rows = append(rows, row)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	// trailing empty rows are dropped, as GetRows does
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

// Grid returns every cell of a sheet as typed report values. Numeric cells
// become numbers; everything else stays text.
func (w *Workbook) Grid(sheet string) ([][]core.Value, error) {
	rows, err := w.Rows(sheet, 0)
	if err != nil {
		return nil, err
	}
	grid := make([][]core.Value, len(rows))
	for r, row := range rows {
		grid[r] = make([]core.Value, len(row))
		for c, raw := range row {
			grid[r][c] = w.typedValue(sheet, r, c, raw)
		}
	}
	return grid, nil
}

func (w *Workbook) typedValue(sheet string, r, c int, raw string) core.Value {
	if raw == "" {
		return core.Empty()
	}
	cell, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return core.Text(raw)
	}
	typ, err := w.f.GetCellType(sheet, cell)
	if err != nil {
		return core.Text(raw)
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if d, err := decimal.NewFromString(raw); err == nil {
			return core.Number(d)
		}
	}
	return core.Text(raw)
}

// Cell returns row[i] trimmed, or "" when the row is too short.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// IsBlankRow reports whether every cell of the row is empty after trimming.
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Fold returns the case-folded, trimmed form of a header or sheet name.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
