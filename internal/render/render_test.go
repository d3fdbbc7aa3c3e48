package render

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/internal/loader"
	"github.com/leapstack-labs/leapdoi/internal/report"
	"github.com/leapstack-labs/leapdoi/internal/testutil"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func combinedFixture() testutil.Sheet {
	return testutil.Combined(
		[]any{"Alpha Minerals", "MI", 1, 1, 0.25, "L-1", "", 0.25, 0, 40},
		[]any{"Bravo Energy", "WI", 1, 1, 0.75, "L-1", "", nil, nil, 40},
		[]any{"Alpha Minerals", "MI", 2, 1, 0.5, "L-2", "", 0.25, 0, 20},
		[]any{"Bravo Energy", "WI", 2, 1, 0.5, "L-2", "", nil, nil, 20},
	)
}

func scheduleFixture() testutil.Sheet {
	return testutil.TractList(
		testutil.Allocation{Tract: 1, Legal: "NW/4 Section 12", Acres: 96, Factor: 0.6},
		testutil.Allocation{Tract: 2, Legal: "SW/4 Section 12", Acres: 64, Factor: 0.4},
	)
}

func load(t *testing.T, sheets ...testutil.Sheet) *workbook.Workbook {
	t.Helper()
	wb, err := workbook.OpenReader("fixture.xlsx", bytes.NewReader(testutil.XLSXBytes(t, sheets...)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func reopen(t *testing.T, rep *core.Report, opts Options) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rep, config.DefaultStyle(), opts))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func value(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestWorkbook_TractBased(t *testing.T) {
	ctx := context.Background()
	logger := testutil.NewTestLogger(t)
	ds, err := loader.LoadCombined(ctx, load(t, combinedFixture()), loader.Options{Logger: logger})
	require.NoError(t, err)
	rep, err := report.BuildTractBased(ds, report.Options{Logger: logger})
	require.NoError(t, err)

	f := reopen(t, rep, Options{Logger: logger})

	assert.Equal(t, []string{"Tract List", "LORI", "NPRI", "ORI", "WI", "Unit Recap"}, f.GetSheetList())

	assert.Equal(t, "TRACT", value(t, f, "Tract List", "A1"))
	assert.Equal(t, "1", value(t, f, "Tract List", "A2"))
	assert.Equal(t, "40.00", value(t, f, "Tract List", "C2"))

	// LORI: header, blank, three info rows, blank, owner row, TOTALS
	assert.Equal(t, "OWNER", value(t, f, "LORI", "A1"))
	assert.Equal(t, "Tract No.:", value(t, f, "LORI", "A3"))
	assert.Equal(t, "1", value(t, f, "LORI", "B3"))
	assert.Equal(t, "Gross Acres:", value(t, f, "LORI", "A4"))
	assert.Equal(t, "40.00", value(t, f, "LORI", "B4"))
	assert.Equal(t, "Legal Description:", value(t, f, "LORI", "A5"))
	assert.Equal(t, "Alpha Minerals", value(t, f, "LORI", "A7"))
	assert.Equal(t, "0.25000000", value(t, f, "LORI", "F7"))
	assert.Equal(t, "40.000000", value(t, f, "LORI", "N7"))
	assert.Equal(t, "TOTALS", value(t, f, "LORI", "A8"))
	assert.Equal(t, "0.25000000", value(t, f, "LORI", "F8"))

	width, err := f.GetColWidth("LORI", "A")
	require.NoError(t, err)
	assert.InDelta(t, 45, width, 0.01)

	layout, err := f.GetPageLayout("LORI")
	require.NoError(t, err)
	require.NotNil(t, layout.Orientation)
	assert.Equal(t, "landscape", *layout.Orientation)

	var printTitles bool
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "_xlnm.Print_Titles" && dn.Scope == "LORI" {
			printTitles = true
		}
	}
	assert.True(t, printTitles, "LORI repeats its header row")

	assert.Equal(t, "OWNER", value(t, f, "ORI", "A1"), "empty sheets keep their header")
	assert.Empty(t, value(t, f, "ORI", "A3"))

	assert.Equal(t, "LORI NRI", value(t, f, "Unit Recap", "B1"))
	assert.Equal(t, "TOTAL", value(t, f, "Unit Recap", "A4"))
	assert.Equal(t, "2.00000000", value(t, f, "Unit Recap", "F4"))
}

func TestWorkbook_UnitBased(t *testing.T) {
	ctx := context.Background()
	logger := testutil.NewTestLogger(t)

	ds, err := loader.LoadCombined(ctx, load(t, combinedFixture()), loader.Options{Logger: logger})
	require.NoError(t, err)

	schedBook := testutil.NewXLSX(t, scheduleFixture())
	t.Cleanup(func() { _ = schedBook.Close() })
	bold, err := schedBook.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	require.NoError(t, err)
	require.NoError(t, schedBook.SetCellStyle("Tract List", "A1", "A1", bold))
	require.NoError(t, schedBook.MergeCell("Tract List", "A1", "D1"))
	require.NoError(t, schedBook.SetColWidth("Tract List", "B", "B", 42))

	sched, err := loader.LoadSchedule(ctx, workbook.FromFile("schedule.xlsx", schedBook), loader.Options{Logger: logger})
	require.NoError(t, err)
	rep, err := report.BuildUnitBased(ds, sched, report.Options{Logger: logger})
	require.NoError(t, err)

	f := reopen(t, rep, Options{Logger: logger, Source: schedBook, SourceSheet: sched.SheetName})

	t.Run("tract list copies the schedule", func(t *testing.T) {
		assert.Equal(t, "Exhibit A - Unit Tract Schedule", value(t, f, "Tract List", "A1"))
		assert.Equal(t, "NW/4 Section 12", value(t, f, "Tract List", "B4"))
		assert.Equal(t, "0.6", value(t, f, "Tract List", "D4"))

		merged, err := f.GetMergeCells("Tract List")
		require.NoError(t, err)
		require.Len(t, merged, 1)
		assert.Equal(t, "A1", merged[0].GetStartAxis())
		assert.Equal(t, "D1", merged[0].GetEndAxis())

		width, err := f.GetColWidth("Tract List", "B")
		require.NoError(t, err)
		assert.InDelta(t, 42, width, 0.01)

		id, err := f.GetCellStyle("Tract List", "A1")
		require.NoError(t, err)
		st, err := f.GetStyle(id)
		require.NoError(t, err)
		require.NotNil(t, st.Font)
		assert.True(t, st.Font.Bold)
	})

	t.Run("owner blocks", func(t *testing.T) {
		// header, blank, owner row, blank, two tract rows, TOTAL
		assert.Equal(t, "TRACT", value(t, f, "LORI", "A1"))
		assert.Equal(t, "UNIT NRI", value(t, f, "LORI", "O1"))
		assert.Equal(t, "Owner Name:", value(t, f, "LORI", "A3"))
		assert.Equal(t, "Alpha Minerals", value(t, f, "LORI", "B3"))
		assert.Equal(t, "0.15000000", value(t, f, "LORI", "O5"))
		assert.Equal(t, "0.20000000", value(t, f, "LORI", "O6"))
		assert.Equal(t, "TOTAL", value(t, f, "LORI", "A7"))
		assert.Equal(t, "0.35000000", value(t, f, "LORI", "O7"))

		merged, err := f.GetMergeCells("LORI")
		require.NoError(t, err)
		require.Len(t, merged, 1)
		assert.Equal(t, "B3", merged[0].GetStartAxis())
		assert.Equal(t, "O3", merged[0].GetEndAxis())
	})

	t.Run("recap", func(t *testing.T) {
		assert.Equal(t, "UNIT NRI TOTAL", value(t, f, "Unit Recap", "A4"))
		assert.Equal(t, "1.00000000", value(t, f, "Unit Recap", "F4"))
	})
}

func TestWorkbook_PassthroughWithoutSource(t *testing.T) {
	rep := &core.Report{Kind: core.ReportUnitBased, Sheets: []*core.Sheet{{
		Name: core.SheetTractList,
		Grid: [][]core.Value{{core.Text("Tract"), core.Empty(), core.Number(decimalOne())}},
	}}}

	f := reopen(t, rep, Options{})
	assert.Equal(t, "Tract", value(t, f, "Tract List", "A1"))
	assert.Equal(t, "1", value(t, f, "Tract List", "C1"))
}

func TestWorkbook_NoSheets(t *testing.T) {
	_, err := Workbook(&core.Report{}, config.DefaultStyle(), Options{})
	assert.Error(t, err)
}

func TestSaveAs(t *testing.T) {
	rep := &core.Report{Sheets: []*core.Sheet{{Name: "Only", Columns: []core.Column{{Header: "A", Width: 10}}}}}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, SaveAs(path, rep, config.DefaultStyle(), Options{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Only"}, f.GetSheetList())
}

func TestDecimals(t *testing.T) {
	assert.Equal(t, "0", decimals(0))
	assert.Equal(t, "0.00", decimals(2))
	assert.Equal(t, "0.00000000", decimals(8))
}

func decimalOne() decimal.Decimal { return decimal.NewFromInt(1) }
