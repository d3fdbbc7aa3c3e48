package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/leapstack-labs/leapdoi/internal/cli/output"
	"github.com/leapstack-labs/leapdoi/internal/engine"
	"github.com/leapstack-labs/leapdoi/internal/state"
	"github.com/leapstack-labs/leapdoi/internal/watch"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/spf13/cobra"
)

// GenerateOptions holds options for the generate subcommands.
type GenerateOptions struct {
	Combined string
	Schedule string
	Out      string
	Strict   bool
	Watch    bool
}

// NewGenerateCommand creates the generate command and its report subcommands.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a DOI report workbook",
		Long: `Generate a Division of Interest workbook from a Combined ownership workbook.

  tract  Tract-Based Ownership: owners grouped by tract, tract NRI
  unit   Unit-Based DOI: tracts grouped by owner, NRI scaled by the
         schedule's tract allocation factors`,
	}
	cmd.AddCommand(newGenerateTractCommand(), newGenerateUnitCommand())
	return cmd
}

func newGenerateTractCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "tract",
		Short: "Generate the Tract-Based Ownership workbook",
		Example: `  # Write Tract_Based_Ownership.xlsx to the output directory
  leapdoi generate tract --combined combined.xlsx

  # Choose the output file
  leapdoi generate tract --combined combined.xlsx -O reports/tract.xlsx

  # Rebuild whenever combined.xlsx is saved
  leapdoi generate tract --combined combined.xlsx --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, core.ReportTractBased, opts)
		},
	}
	addGenerateFlags(cmd, opts)
	return cmd
}

func newGenerateUnitCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Generate the Unit-Based DOI workbook",
		Long: `Generate the Unit-Based DOI workbook.

Every tract in the Combined workbook must appear in the schedule's Tract List.
When the unit NRI does not total 1 the workbook is still written and a warning
is printed; use --strict to exit non-zero in that case.`,
		Example: `  leapdoi generate unit --combined combined.xlsx --schedule schedule.xlsx

  # Fail the run when the unit does not reconcile
  leapdoi generate unit --combined combined.xlsx --schedule schedule.xlsx --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, core.ReportUnitBased, opts)
		},
	}
	addGenerateFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "Schedule workbook with the Tract List sheet")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagFilename("schedule", "xlsx")
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *GenerateOptions) {
	cmd.Flags().StringVar(&opts.Combined, "combined", "", "Combined ownership workbook")
	cmd.Flags().StringVarP(&opts.Out, "out", "O", "", "Output workbook (default: <output-dir>/<report>.xlsx)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero when the report does not reconcile")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Regenerate whenever an input workbook changes")
	_ = cmd.MarkFlagRequired("combined")
	_ = cmd.MarkFlagFilename("combined", "xlsx")
	_ = cmd.MarkFlagFilename("out", "xlsx")
}

// generateOutput is the JSON result of a generate run.
type generateOutput struct {
	Kind           string         `json:"kind"`
	File           string         `json:"file"`
	RunID          string         `json:"run_id"`
	Sheets         []string       `json:"sheets"`
	TotalNRI       string         `json:"total_nri"`
	Reconciled     bool           `json:"reconciled"`
	Reconciliation string         `json:"reconciliation,omitempty"`
	Warnings       []core.Warning `json:"warnings"`
}

func runGenerate(cmd *cobra.Command, kind core.ReportKind, opts *GenerateOptions) error {
	cc := NewCommandContext(cmd)
	err := generateOnce(cmd.Context(), cc, kind, opts, cc.RunID)
	if !opts.Watch {
		return err
	}
	if err != nil {
		cc.Renderer.Error(err.Error())
	}

	inputs := []string{opts.Combined}
	if kind == core.ReportUnitBased {
		inputs = append(inputs, opts.Schedule)
	}
	w, err := watch.New(inputs...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cc.Renderer.Muted("Watching inputs for changes (Ctrl+C to stop)")
	return w.Run(ctx, func(changed string) {
		cc.Logger.Info("input changed", "file", changed)
		// each regeneration is a new run
		if err := generateOnce(ctx, cc, kind, opts, ""); err != nil {
			cc.Renderer.Error(err.Error())
		}
	})
}

// outputPath returns where the report is written.
func outputPath(cc *CommandContext, kind core.ReportKind, opts *GenerateOptions) string {
	if opts.Out != "" {
		return opts.Out
	}
	return filepath.Join(cc.Cfg.OutputDir, kind.DefaultFileName())
}

func generateOnce(ctx context.Context, cc *CommandContext, kind core.ReportKind, opts *GenerateOptions, runID string) error {
	r := cc.Renderer

	combined, err := workbook.Open(opts.Combined)
	if err != nil {
		return fmt.Errorf("failed to open combined workbook: %w", err)
	}
	defer func() { _ = combined.Close() }()

	req := engine.Request{Kind: kind, Combined: combined, RunID: runID}
	if kind == core.ReportUnitBased {
		schedule, err := workbook.Open(opts.Schedule)
		if err != nil {
			return fmt.Errorf("failed to open schedule workbook: %w", err)
		}
		defer func() { _ = schedule.Close() }()
		req.Schedule = schedule
	}

	path := outputPath(cc, kind, opts)
	run := &state.Run{
		ID:        runID,
		Kind:      string(kind),
		Combined:  opts.Combined,
		Schedule:  opts.Schedule,
		StartedAt: time.Now().UTC(),
	}

	fail := func(err error) error {
		run.Status = state.RunStatusFailed
		run.Error = err.Error()
		recordRun(ctx, cc, filepath.Dir(path), run)
		return err
	}

	res, err := cc.Engine.Build(ctx, req)
	if err != nil {
		return fail(err)
	}
	run.ID = res.RunID()

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fail(fmt.Errorf("failed to create output directory: %w", err))
		}
	}
	if err := cc.Engine.SaveAs(path, res); err != nil {
		return fail(err)
	}

	rep := res.Report
	run.Output = path
	run.TotalNRI = rep.TotalNRI().StringFixed(8)
	run.Status = state.RunStatusReconciled
	if res.Reconciliation != nil {
		run.Status = state.RunStatusUnreconciled
		run.Difference = res.Reconciliation.Difference.StringFixed(8)
	}
	recordRun(ctx, cc, filepath.Dir(path), run)

	if r.EffectiveMode() == output.ModeJSON {
		out := generateOutput{
			Kind:       string(kind),
			File:       path,
			RunID:      res.RunID(),
			Sheets:     rep.SheetNames(),
			TotalNRI:   run.TotalNRI,
			Reconciled: res.Reconciliation == nil,
			Warnings:   append([]core.Warning{}, rep.Warnings...),
		}
		if res.Reconciliation != nil {
			out.Reconciliation = res.Reconciliation.Error()
		}
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		r.Success(fmt.Sprintf("Wrote %s to %s", kind.Title(), path))
		r.KeyValue("Run ID", res.RunID())
		r.KeyValue("Sheets", fmt.Sprint(len(rep.Sheets)))
		r.KeyValue("Total NRI", run.TotalNRI)
		for _, w := range rep.Warnings {
			if w.Code == core.WarnReconciliation {
				continue
			}
			r.Warning(w.String())
		}
		if res.Reconciliation != nil {
			r.Warning("Report does not reconcile: " + res.Reconciliation.Error())
		}
	}

	if opts.Strict && res.Reconciliation != nil {
		return fmt.Errorf("report written to %s but does not reconcile: %w", path, res.Reconciliation)
	}
	return nil
}

// recordRun appends run to the history kept in dir. History problems are
// logged and never fail the run.
func recordRun(ctx context.Context, cc *CommandContext, dir string, run *state.Run) {
	if !cc.Cfg.History.Enabled {
		return
	}
	run.CompletedAt = time.Now().UTC()

	path := cc.Cfg.History.HistoryPath(dir)
	store, err := state.Open(path)
	if err != nil {
		cc.Logger.Warn("run history unavailable", "path", path, "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.RecordRun(ctx, run); err != nil {
		cc.Logger.Warn("failed to record run", "path", path, "error", err)
		return
	}
	cc.Logger.Debug("recorded run", "path", path, "run_id", run.ID, "status", run.Status)
}
