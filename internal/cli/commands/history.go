package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/leapstack-labs/leapdoi/internal/cli/output"
	"github.com/leapstack-labs/leapdoi/internal/state"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [dir]",
		Short: "List report runs recorded in an output directory",
		Long: `List the generate runs recorded next to the reports in an output directory
(default: the configured output directory), newest first.

Runs are recorded in <dir>/.leapdoi/history.db unless history.path is set.`,
		Example: `  leapdoi history
  leapdoi history reports --limit 5 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runHistory(cmd, dir, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func runHistory(cmd *cobra.Command, dir string, limit int) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer
	if dir == "" {
		dir = cc.Cfg.OutputDir
	}

	path := cc.Cfg.History.HistoryPath(dir)
	runs := []*state.Run{}
	if _, err := os.Stat(path); err == nil {
		store, err := state.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer func() { _ = store.Close() }()

		if runs, err = store.ListRuns(cmd.Context(), limit); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read run history: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return r.JSON(runs)
	}

	r.Header(1, "Run History")
	r.KeyValue("Database", path)
	if len(runs) == 0 {
		r.Muted("No runs recorded")
		return nil
	}
	r.Println("")

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		result := run.TotalNRI
		if run.Status == state.RunStatusFailed {
			result, _, _ = strings.Cut(run.Error, "\n")
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format(time.DateTime),
			run.Kind,
			string(run.Status),
			result,
			run.Output,
			run.ID,
		})
	}
	r.Table([]string{"Started", "Kind", "Status", "Total NRI / Error", "Output", "Run ID"}, rows)
	return nil
}
