package loader

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/internal/testutil"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, sheets ...testutil.Sheet) *workbook.Workbook {
	t.Helper()
	wb, err := workbook.OpenReader("fixture.xlsx", bytes.NewReader(testutil.XLSXBytes(t, sheets...)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func testOptions(t *testing.T) Options {
	return Options{Logger: testutil.NewTestLogger(t)}
}

func validationErrors(t *testing.T, err error) []*core.ValidationError {
	t.Helper()
	var out []*core.ValidationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, validationErrors(t, e)...)
		}
		return out
	}
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		out = append(out, ve)
	}
	return out
}

func TestLoadCombined(t *testing.T) {
	wb := open(t, testutil.Combined(
		[]any{"Smith, John", "MI", 1.0, 0.1875, 0.5, "L-1", "R1", 0.1875, 0, 40},
		[]any{"Jones LLC", "wi", "01", 0.8125, 1, "L-1", "", nil, nil, 80},
		[]any{"Acme Royalty", "NPRI", "Oram 2", 0.0625, 0.5, "", "", nil, nil, nil},
	))

	ds, err := LoadCombined(context.Background(), wb, testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "Combined", ds.SheetName)
	assert.Equal(t, 1, ds.HeaderRow)
	require.Len(t, ds.Records, 3)
	assert.Empty(t, ds.Other)
	assert.Empty(t, ds.Warnings)

	mi := ds.Records[0]
	assert.Equal(t, 2, mi.Row)
	assert.Equal(t, "Smith, John", mi.Owner)
	assert.Equal(t, core.InterestMI, mi.Type)
	assert.Equal(t, "1", mi.TractKey)
	assert.Equal(t, "0.1875", mi.TractNRI.String())
	assert.Equal(t, "0.5", mi.DecimalInterest.String())
	assert.Equal(t, "L-1", mi.LeaseNo)
	assert.Equal(t, "R1", mi.ReqNo)
	require.True(t, mi.LeaseRoyalty.Valid)
	assert.Equal(t, "0.1875", mi.LeaseRoyalty.Decimal.String())
	assert.Equal(t, "40", mi.NetAcres.String())

	wi := ds.Records[1]
	assert.Equal(t, core.InterestWI, wi.Type, "TYPE is case-insensitive")
	assert.Equal(t, "1", wi.TractKey, "tract ids are normalized")
	assert.False(t, wi.LeaseRoyalty.Valid)

	assert.Equal(t, "Oram 2", ds.Records[2].TractKey)
	assert.Equal(t, []string{"1", "Oram 2"}, ds.TractKeys())
	assert.Equal(t, map[core.InterestType]int{core.InterestMI: 1, core.InterestWI: 1, core.InterestNPRI: 1}, ds.TypeCounts())
}

func TestLoadCombined_HeaderBelowTitle(t *testing.T) {
	rows := [][]any{
		{"Ownership Export"},
		{"Prepared 2024-01-01"},
		testutil.CombinedHeader,
		{"A", "MI", 3, 0.5, 1},
	}
	wb := open(t, testutil.Sheet{Name: "Export", Rows: rows})

	ds, err := LoadCombined(context.Background(), wb, testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, "Export", ds.SheetName)
	assert.Equal(t, 3, ds.HeaderRow)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, 4, ds.Records[0].Row)
}

func TestLoadCombined_MissingColumns(t *testing.T) {
	wb := open(t, testutil.Sheet{Name: "Combined", Rows: [][]any{
		{"OWNER", "TRACT NRI"},
		{"A", 0.5},
	}})

	_, err := LoadCombined(context.Background(), wb, testOptions(t))
	require.Error(t, err)

	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, core.MissingColumns, ve.Kind)
	assert.Equal(t, []string{"TYPE", "TRACT"}, ve.Columns)
	assert.Contains(t, err.Error(), "TYPE, TRACT")
}

func TestLoadCombined_MissingSheet(t *testing.T) {
	wb := open(t,
		testutil.Sheet{Name: "Notes", Rows: [][]any{{"nothing here"}}},
		testutil.Sheet{Name: "Other", Rows: [][]any{{"OWNER", "TYPE"}}},
	)

	_, err := LoadCombined(context.Background(), wb, testOptions(t))
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, core.MissingSheet, ve.Kind)
	assert.Equal(t, []string{"Notes", "Other"}, ve.Sheets)
}

func TestLoadCombined_NumericPolicy(t *testing.T) {
	sheet := testutil.Combined(
		[]any{"A", "MI", 1, "n/a", 0.5},
		[]any{"B", "MI", 1, 0.25, "half"},
		[]any{"C", "WI", 1, 0.75, 1},
	)

	t.Run("fail reports every bad cell", func(t *testing.T) {
		_, err := LoadCombined(context.Background(), open(t, sheet), testOptions(t))
		require.Error(t, err)

		errs := validationErrors(t, err)
		require.Len(t, errs, 2)
		assert.Equal(t, core.InvalidValue, errs[0].Kind)
		assert.Equal(t, 2, errs[0].Row)
		assert.Equal(t, ColTractNRI, errs[0].Column)
		assert.Equal(t, "n/a", errs[0].Value)
		assert.Equal(t, 3, errs[1].Row)
		assert.Equal(t, ColDecimalInterest, errs[1].Column)
	})

	t.Run("drop skips the rows with a warning", func(t *testing.T) {
		opts := testOptions(t)
		opts.NumericPolicy = config.NumericDrop
		ds, err := LoadCombined(context.Background(), open(t, sheet), opts)
		require.NoError(t, err)

		require.Len(t, ds.Records, 1)
		assert.Equal(t, "C", ds.Records[0].Owner)
		require.Len(t, ds.Warnings, 2)
		for _, w := range ds.Warnings {
			assert.Equal(t, core.WarnDroppedRow, w.Code)
		}
	})
}

func TestLoadCombined_Warnings(t *testing.T) {
	wb := open(t, testutil.Sheet{Name: "Combined", Rows: [][]any{
		{"OWNER", "TYPE", "TRACT", "TRACT NRI", "LEASE ROYALTY"},
		{"A", "MI", 1, 0.5, "one eighth"},
		{"B", "MI", "", 0.5},
		{"C", "MI", " ", 0.5},
		{},
		{"D", "RI", 2, 0.1},
		{"E", "RI", 2, 0.1},
		{"F", "", 2, 0.1},
	}})

	ds, err := LoadCombined(context.Background(), wb, testOptions(t))
	require.NoError(t, err)

	require.Len(t, ds.Records, 1)
	assert.False(t, ds.Records[0].LeaseRoyalty.Valid)
	assert.True(t, ds.Records[0].DecimalInterest.IsZero())
	assert.Len(t, ds.Other, 3)

	codes := map[string][]string{}
	for _, w := range ds.Warnings {
		codes[w.Code] = append(codes[w.Code], w.Message)
	}
	assert.Len(t, codes[core.WarnMissingColumn], 1)
	assert.Len(t, codes[core.WarnInvalidOptional], 1)
	require.Len(t, codes[core.WarnBlankTract], 1)
	assert.Contains(t, codes[core.WarnBlankTract][0], "skipped 2 row(s)")
	require.Len(t, codes[core.WarnOtherType], 2)
	assert.Contains(t, codes[core.WarnOtherType][0], `2 row(s) with TYPE "RI"`)
	assert.Contains(t, codes[core.WarnOtherType][1], `"(blank)"`)
}

func TestLoadCombined_NoRecords(t *testing.T) {
	wb := open(t, testutil.Combined([]any{"A", "RI", 1, 0.5, 1}))

	_, err := LoadCombined(context.Background(), wb, testOptions(t))
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, core.NoRecords, ve.Kind)
}

func TestLoadCombined_RowLimit(t *testing.T) {
	row := func(owner string) []any { return []any{owner, "MI", 1, 0.5, 1} }
	tests := []struct {
		name       string
		rows       [][]any
		scanRows   int
		wantDetail string
	}{
		{
			name:       "counted after the header",
			rows:       [][]any{row("A"), row("B"), row("C")},
			scanRows:   20,
			wantDetail: "found 3",
		},
		{
			name:       "stopped while streaming",
			rows:       [][]any{row("A"), row("B"), row("C"), row("D"), row("E")},
			scanRows:   1,
			wantDetail: "more than 3 rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := open(t, testutil.Combined(tt.rows...))
			opts := testOptions(t)
			opts.MaxRows = 2
			opts.HeaderScanRows = tt.scanRows

			_, err := LoadCombined(context.Background(), wb, opts)
			var ve *core.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, core.RowLimit, ve.Kind)
			assert.Equal(t, 2, ve.Limit)
			assert.Contains(t, ve.Detail, tt.wantDetail)
		})
	}
}

func TestLoadCombined_Canceled(t *testing.T) {
	wb := open(t, testutil.Combined([]any{"A", "MI", 1, 0.5, 1}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadCombined(ctx, wb, testOptions(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in        string
		want      string
		wantBlank bool
		wantOK    bool
	}{
		{"", "0", true, true},
		{"  ", "0", true, true},
		{"nan", "0", true, true},
		{"0.125", "0.125", false, true},
		{"1,234.5", "1234.5", false, true},
		{"12.5%", "0.125", false, true},
		{"1.5E-2", "0.015", false, true},
		{"abc", "0", false, false},
		{"1e20000000", "0", false, false},
		{"1e-20000000", "0", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, blank, ok := parseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantBlank, blank)
			assert.Equal(t, tt.want, d.String())
		})
	}
}
