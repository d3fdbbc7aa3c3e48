package workbook

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/leapdoi/internal/testutil"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T, sheets ...testutil.Sheet) *Workbook {
	t.Helper()
	wb, err := OpenReader("fixture.xlsx", bytes.NewReader(testutil.XLSXBytes(t, sheets...)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestWorkbook_RowsAndGrid(t *testing.T) {
	wb := openFixture(t, testutil.Sheet{Name: "Data", Rows: [][]any{
		{"Tract", "Acres"},
		{"Oram 1", 40.5},
		{7, "n/a"},
	}})

	assert.Equal(t, []string{"Data"}, wb.SheetNames())

	rows, err := wb.Rows("Data", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "40.5", rows[1][1])
	assert.Equal(t, "7", rows[2][0])

	grid, err := wb.Grid("Data")
	require.NoError(t, err)
	assert.Equal(t, core.ValueText, grid[1][0].Kind)
	assert.Equal(t, core.ValueNumber, grid[1][1].Kind)
	assert.Equal(t, "40.5", grid[1][1].Number.String())
	assert.Equal(t, core.ValueText, grid[2][1].Kind)

	_, err = wb.Rows("Missing", 0)
	assert.Error(t, err)
}

func TestWorkbook_RowsLimitAndHead(t *testing.T) {
	wb := openFixture(t, testutil.Sheet{Name: "Data", Rows: [][]any{
		{"OWNER"},
		{},
		{"A"},
		{"B"},
		{"C"},
	}})

	rows, err := wb.Rows("Data", 4)
	require.NoError(t, err)
	assert.Len(t, rows, 5, "blank rows do not count against the cap")

	_, err = wb.Rows("Data", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyRows)

	head, err := wb.Head("Data", 2)
	require.NoError(t, err)
	require.Len(t, head, 2)
	assert.Equal(t, "OWNER", head[0][0])

	head, err = wb.Head("Data", 50)
	require.NoError(t, err)
	assert.Len(t, head, 5)
}

func TestOpenReader_NotAWorkbook(t *testing.T) {
	_, err := OpenReader("notes.txt", bytes.NewReader([]byte("hello")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestCellHelpers(t *testing.T) {
	row := []string{" a ", "", "b"}
	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "", Cell(row, 5))
	assert.Equal(t, "", Cell(row, -1))
	assert.False(t, IsBlankRow(row))
	assert.True(t, IsBlankRow([]string{"", "  "}))
	assert.True(t, IsBlankRow(nil))
}

func TestTable(t *testing.T) {
	rows := [][]string{
		{"Ownership export"},
		{},
		{" owner ", "Type", "TRACT", "TYPE"},
		{"A", "MI", "1"},
	}
	idx := FindHeaderRow(rows, "OWNER", 20)
	require.Equal(t, 2, idx)

	tbl := NewTable("Combined", rows, idx)
	assert.Equal(t, 3, tbl.HeaderRow)
	assert.Len(t, tbl.Rows, 1)
	assert.Equal(t, 4, tbl.SourceRow(0))

	i, ok := tbl.Column("type")
	require.True(t, ok)
	assert.Equal(t, 1, i, "first occurrence of a duplicated header wins")

	assert.True(t, tbl.HasColumns("OWNER", "TRACT"))
	assert.Equal(t, []string{"TRACT NRI", "REQ"}, tbl.Missing("TRACT NRI", "OWNER", "REQ"))
}

func TestFindHeaderRow_ScanLimit(t *testing.T) {
	rows := [][]string{{"x"}, {"y"}, {"OWNER"}}
	assert.Equal(t, 0, FindHeaderRow(rows, "OWNER", 2))
	assert.Equal(t, 2, FindHeaderRow(rows, "OWNER", 3))
}
