package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapdoi/internal/cli/config"
	"github.com/leapstack-labs/leapdoi/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeInputs(t *testing.T, f1, f2 float64) (dir, combined, schedule string) {
	t.Helper()
	dir = t.TempDir()
	combined = testutil.WriteXLSX(t, dir, "combined.xlsx", testutil.Combined(
		[]any{"Alpha Minerals", "MI", 1, 1, 0.25, "L-1", "", 0.25, 0, 40},
		[]any{"Bravo Energy", "WI", 1, 1, 0.75, "L-1", "", nil, nil, 40},
		[]any{"Alpha Minerals", "MI", 2, 1, 0.5, "L-2", "", 0.25, 0, 20},
		[]any{"Bravo Energy", "WI", 2, 1, 0.5, "L-2", "", nil, nil, 20},
	))
	schedule = testutil.WriteXLSX(t, dir, "schedule.xlsx", testutil.TractList(
		testutil.Allocation{Tract: 1, Legal: "NW/4", Acres: 96, Factor: f1},
		testutil.Allocation{Tract: 2, Legal: "SW/4", Acres: 64, Factor: f2},
	))
	return dir, combined, schedule
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewGenerateCommand(), "generate", nil},
		{NewInspectCommand(), "inspect", []string{"combined", "schedule"}},
		{NewServeCommand(), "serve", []string{"addr", "max-upload-mb"}},
		{NewConfigCommand(), "config", nil},
		{NewHistoryCommand(), "history [dir]", []string{"limit"}},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}

	gen := NewGenerateCommand()
	names := []string{}
	for _, c := range gen.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"tract", "unit"}, names)
}

func TestGenerateTract(t *testing.T) {
	dir, combined, _ := writeInputs(t, 0.6, 0.4)
	out := filepath.Join(dir, "reports", "tract.xlsx")

	stdout, _, err := execute(t, NewGenerateCommand(), "tract", "--combined", combined, "-O", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote Tract-Based Ownership to "+out)
	assert.Contains(t, stdout, "2.00000000")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Tract List", "LORI", "NPRI", "ORI", "WI", "Unit Recap"}, f.GetSheetList())
}

func TestGenerateUnit(t *testing.T) {
	t.Run("reconciles", func(t *testing.T) {
		dir, combined, schedule := writeInputs(t, 0.6, 0.4)
		out := filepath.Join(dir, "unit.xlsx")

		stdout, stderr, err := execute(t, NewGenerateCommand(), "unit", "--combined", combined, "--schedule", schedule, "-O", out)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Wrote Unit-Based DOI")
		assert.Contains(t, stdout, "1.00000000")
		assert.NotContains(t, stderr, "does not reconcile")
		assert.FileExists(t, out)
	})

	t.Run("reconciliation failure warns but writes", func(t *testing.T) {
		dir, combined, schedule := writeInputs(t, 0.6, 0.3)
		out := filepath.Join(dir, "unit.xlsx")

		_, stderr, err := execute(t, NewGenerateCommand(), "unit", "--combined", combined, "--schedule", schedule, "-O", out)
		require.NoError(t, err)
		assert.Contains(t, stderr, "does not reconcile")
		assert.FileExists(t, out)
	})

	t.Run("strict fails after writing", func(t *testing.T) {
		dir, combined, schedule := writeInputs(t, 0.6, 0.3)
		out := filepath.Join(dir, "unit.xlsx")

		_, _, err := execute(t, NewGenerateCommand(), "unit", "--combined", combined, "--schedule", schedule, "-O", out, "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not reconcile")
		assert.FileExists(t, out)
	})

	t.Run("schedule flag required", func(t *testing.T) {
		_, combined, _ := writeInputs(t, 0.6, 0.4)
		_, _, err := execute(t, NewGenerateCommand(), "unit", "--combined", combined)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schedule")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, NewGenerateCommand(), "tract", "--combined", filepath.Join(t.TempDir(), "nope.xlsx"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open combined workbook")
	})
}

func TestGenerate_DefaultOutputPath(t *testing.T) {
	dir, combined, _ := writeInputs(t, 0.6, 0.4)
	t.Chdir(dir)

	_, _, err := execute(t, NewGenerateCommand(), "tract", "--combined", combined)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Tract_Based_Ownership.xlsx"))
}

func TestInspect(t *testing.T) {
	_, combined, schedule := writeInputs(t, 0.6, 0.4)

	stdout, _, err := execute(t, NewInspectCommand(), "--combined", combined, "--schedule", schedule)
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Combined Data")
	assert.Contains(t, stdout, "- **Records:** 4")
	assert.Contains(t, stdout, "- **Owners:** 2")
	assert.Contains(t, stdout, "## Tract Allocation")
	assert.Contains(t, stdout, "NW/4")
	assert.Contains(t, stdout, "1.00000000")
}

func TestInspect_JSON(t *testing.T) {
	_, combined, _ := writeInputs(t, 0.6, 0.4)
	cmd := NewInspectCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--combined", combined})

	// Load a config that selects JSON output
	config.ResetConfig()
	cfgPath := filepath.Join(t.TempDir(), "leapdoi.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: json\n"), 0o600))
	_, err := config.LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	t.Cleanup(config.ResetConfig)

	require.NoError(t, cmd.Execute())
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.EqualValues(t, 4, got["records"])
	assert.Equal(t, "Combined", got["sheet"])
}

func TestConfigCommand(t *testing.T) {
	stdout, _, err := execute(t, NewConfigCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "data_sheet: Combined")
	assert.Contains(t, stdout, "font_name: Times New Roman")
	assert.Contains(t, stdout, "max_upload_mb: 32")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, NewVersionCommand("1.2.3"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "leapdoi v1.2.3")
}

func TestGenerate_RecordsHistory(t *testing.T) {
	dir, combined, schedule := writeInputs(t, 0.6, 0.3)
	out := filepath.Join(dir, "reports", "unit.xlsx")

	_, _, err := execute(t, NewGenerateCommand(), "unit", "--combined", combined, "--schedule", schedule, "-O", out)
	require.NoError(t, err)

	// unknown tract: tract 2 is missing from the schedule
	badSchedule := testutil.WriteXLSX(t, dir, "bad.xlsx", testutil.TractList(
		testutil.Allocation{Tract: 1, Legal: "NW/4", Acres: 96, Factor: 1},
	))
	_, _, err = execute(t, NewGenerateCommand(), "unit", "--combined", combined, "--schedule", badSchedule, "-O", out)
	require.Error(t, err)

	dbPath := filepath.Join(dir, "reports", ".leapdoi", "history.db")
	require.FileExists(t, dbPath)

	stdout, _, err := execute(t, NewHistoryCommand(), filepath.Join(dir, "reports"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Run History")
	assert.Contains(t, stdout, "unreconciled")
	assert.Contains(t, stdout, "failed")
	assert.Contains(t, stdout, "0.90000000")
}

func TestGenerate_RecordsFailedRuns(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) (schedule, out string)
	}{
		{
			name: "build error",
			setup: func(t *testing.T, dir string) (string, string) {
				schedule := testutil.WriteXLSX(t, dir, "bad.xlsx", testutil.TractList(
					testutil.Allocation{Tract: 1, Legal: "NW/4", Acres: 96, Factor: 1},
				))
				return schedule, filepath.Join(dir, "reports", "unit.xlsx")
			},
		},
		{
			name: "write error",
			setup: func(t *testing.T, dir string) (string, string) {
				// the output path is an existing directory, so saving fails
				out := filepath.Join(dir, "reports", "unit.xlsx")
				require.NoError(t, os.MkdirAll(out, 0o750))
				return filepath.Join(dir, "schedule.xlsx"), out
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, combined, _ := writeInputs(t, 0.6, 0.4)
			schedule, out := tt.setup(t, dir)

			_, _, err := execute(t, NewGenerateCommand(), "unit", "--combined", combined, "--schedule", schedule, "-O", out)
			require.Error(t, err)

			stdout, _, err := execute(t, NewHistoryCommand(), filepath.Join(dir, "reports"))
			require.NoError(t, err)
			assert.Contains(t, stdout, "failed")
			assert.NotContains(t, stdout, "No runs recorded")
		})
	}
}

func TestGenerate_HistoryDisabled(t *testing.T) {
	dir, combined, _ := writeInputs(t, 0.6, 0.4)
	t.Setenv("LEAPDOI_HISTORY__ENABLED", "false")
	config.ResetConfig()
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	t.Cleanup(config.ResetConfig)

	cmd := NewGenerateCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"tract", "--combined", combined, "-O", filepath.Join(dir, "tract.xlsx")})
	require.NoError(t, cmd.Execute())

	assert.NoFileExists(t, filepath.Join(dir, ".leapdoi", "history.db"))
}

func TestHistory_Empty(t *testing.T) {
	stdout, _, err := execute(t, NewHistoryCommand(), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded")
}
