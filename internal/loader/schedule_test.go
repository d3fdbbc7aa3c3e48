package loader

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leapdoi/internal/testutil"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedule(t *testing.T) {
	wb := open(t,
		testutil.Sheet{Name: "Cover", Rows: [][]any{{"Unit Agreement"}}},
		testutil.TractList(
			testutil.Allocation{Tract: 1.0, Legal: "NW/4 Sec 12", Acres: 160, Factor: 0.6},
			testutil.Allocation{Tract: "Oram 2", Legal: "SW/4 Sec 12", Acres: 106.5, Factor: 0.4},
		),
	)

	sched, err := LoadSchedule(context.Background(), wb, testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "Tract List", sched.SheetName)
	require.Len(t, sched.Allocations, 2)
	assert.Empty(t, sched.Warnings)

	a, ok := sched.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "NW/4 Sec 12", a.LegalDescription)
	assert.Equal(t, "160", a.GrossAcres.String())
	assert.Equal(t, "0.6", a.AllocationFactor.String())
	assert.Equal(t, 4, a.Row)

	b, ok := sched.Lookup("Oram 2")
	require.True(t, ok)
	assert.Equal(t, "106.5", b.GrossAcres.String())
	assert.Equal(t, "1", sched.TotalFactor().String())

	require.NotEmpty(t, sched.TractList)
	assert.Equal(t, "Exhibit A - Unit Tract Schedule", sched.TractList[0][0].Text)
	assert.Equal(t, core.ValueNumber, sched.TractList[3][3].Kind)
}

func TestLoadSchedule_CaseInsensitiveSheet(t *testing.T) {
	sheet := testutil.TractList(testutil.Allocation{Tract: 1, Acres: 10, Factor: 1})
	sheet.Name = "TRACT LIST"

	sched, err := LoadSchedule(context.Background(), open(t, sheet), testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, "TRACT LIST", sched.SheetName)
}

func TestLoadSchedule_Errors(t *testing.T) {
	tests := []struct {
		name     string
		sheets   []testutil.Sheet
		wantKind core.ValidationKind
		wantText string
	}{
		{
			name:     "no tract list",
			sheets:   []testutil.Sheet{{Name: "Schedule", Rows: [][]any{{"Tract"}}}},
			wantKind: core.MissingSheet,
		},
		{
			name:     "no tract header",
			sheets:   []testutil.Sheet{{Name: "Tract List", Rows: [][]any{{"Parcel", "Acres"}}}},
			wantKind: core.NoRecords,
			wantText: `"Tract" header`,
		},
		{
			name:     "empty table",
			sheets:   []testutil.Sheet{testutil.TractList()},
			wantKind: core.NoRecords,
		},
		{
			name: "conflicting duplicate",
			sheets: []testutil.Sheet{testutil.TractList(
				testutil.Allocation{Tract: 1, Factor: 0.5},
				testutil.Allocation{Tract: "1.0", Factor: 0.25},
			)},
			wantKind: core.DuplicateTract,
			wantText: `tract "1"`,
		},
		{
			name: "factor out of range",
			sheets: []testutil.Sheet{testutil.TractList(
				testutil.Allocation{Tract: 1, Factor: 1.5},
			)},
			wantKind: core.InvalidValue,
			wantText: "between 0 and 1",
		},
		{
			name: "factor not a number",
			sheets: []testutil.Sheet{testutil.TractList(
				testutil.Allocation{Tract: 1, Factor: "tbd"},
			)},
			wantKind: core.InvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSchedule(context.Background(), open(t, tt.sheets...), testOptions(t))
			require.Error(t, err)
			var ve *core.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantKind, ve.Kind)
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
		})
	}
}

func TestLoadSchedule_Warnings(t *testing.T) {
	wb := open(t, testutil.TractList(
		testutil.Allocation{Tract: 1, Acres: 40, Factor: 0.5},
		testutil.Allocation{Tract: "01", Acres: 40, Factor: 0.5},
		testutil.Allocation{Tract: 2, Acres: 40, Factor: 0.25},
	))

	sched, err := LoadSchedule(context.Background(), wb, testOptions(t))
	require.NoError(t, err)
	assert.Len(t, sched.Allocations, 2)

	codes := map[string]int{}
	for _, w := range sched.Warnings {
		codes[w.Code]++
	}
	assert.Equal(t, 1, codes[core.WarnDuplicateTract])
	assert.Equal(t, 1, codes[core.WarnAllocationTotal])
}

func TestResolveScheduleColumns(t *testing.T) {
	cols := resolveScheduleColumns([]string{"Tract", "Gross Acres", "Legal Description", "", "Tract Allocation"})
	assert.Equal(t, scheduleColumns{tract: 0, legal: 2, acres: 1, allocation: 4}, cols)

	cols = resolveScheduleColumns([]string{"Tract"})
	assert.Equal(t, scheduleColumns{tract: 0, legal: 1, acres: 2, allocation: 3}, cols)
}
