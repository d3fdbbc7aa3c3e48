package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet describes one sheet of a fixture workbook. Rows start at A1.
type Sheet struct {
	Name string
	Rows [][]any
}

// CombinedHeader is the header row of a minimal Combined data sheet.
var CombinedHeader = []any{
	"OWNER", "TYPE", "TRACT", "TRACT NRI", "DECIMAL INTEREST",
	"LEASE NO.", "REQ", "LEASE ROYALTY", "NPRI BURDENS", "NET ACRES",
}

// Combined returns a "Combined" sheet with CombinedHeader followed by rows.
func Combined(rows ...[]any) Sheet {
	all := make([][]any, 0, len(rows)+1)
	all = append(all, CombinedHeader)
	all = append(all, rows...)
	return Sheet{Name: "Combined", Rows: all}
}

// Allocation is one Tract List entry of a fixture schedule.
type Allocation struct {
	Tract  any
	Legal  string
	Acres  float64
	Factor any
}

// TractList returns a "Tract List" sheet laid out like a unit schedule: a
// title block, the Tract header row, one row per entry and a closing total.
func TractList(allocs ...Allocation) Sheet {
	rows := [][]any{
		{"Exhibit A - Unit Tract Schedule"},
		{},
		{"Tract", "Legal Description", "Acres", "Tract Allocation"},
	}
	total := 0.0
	for _, a := range allocs {
		rows = append(rows, []any{a.Tract, a.Legal, a.Acres, a.Factor})
		total += a.Acres
	}
	rows = append(rows, []any{"TOTAL UNIT ACRES", nil, total})
	return Sheet{Name: "Tract List", Rows: rows}
}

// NewXLSX builds an in-memory workbook from sheets, in order.
func NewXLSX(t testing.TB, sheets ...Sheet) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet %q: %v", s.Name, err)
		}
		for r, row := range s.Rows {
			if len(row) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				t.Fatalf("write %s!%s: %v", s.Name, cell, err)
			}
		}
	}
	return f
}

// XLSXBytes builds a workbook and returns its serialized bytes.
func XLSXBytes(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()
	f := NewXLSX(t, sheets...)
	defer f.Close()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("serialize workbook: %v", err)
	}
	return buf.Bytes()
}

// WriteXLSX writes a fixture workbook into dir and returns its path.
func WriteXLSX(t testing.TB, dir, name string, sheets ...Sheet) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, XLSXBytes(t, sheets...), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
