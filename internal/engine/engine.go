// Package engine runs report generation end to end: load the inputs, build
// the report model and render it to a workbook. The CLI and the HTTP server
// both drive runs through an Engine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/internal/loader"
	"github.com/leapstack-labs/leapdoi/internal/render"
	"github.com/leapstack-labs/leapdoi/internal/report"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/xuri/excelize/v2"
)

// Engine orchestrates report runs.
type Engine struct {
	settings *config.Settings
	logger   *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Settings are the report settings (defaults when nil)
	Settings *config.Settings
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Engine{settings: settings, logger: logger}
}

// Settings returns the settings the engine runs with.
func (e *Engine) Settings() *config.Settings { return e.settings }

// Request describes one report run.
type Request struct {
	Kind     core.ReportKind
	Combined workbook.Source
	// Schedule is required for unit-based reports and ignored otherwise
	Schedule *workbook.Workbook
	// RunID identifies the run in logs; generated when empty
	RunID string
}

// Result is a built report ready to render.
type Result struct {
	Report *core.Report
	// Reconciliation is set when the report is complete but its totals are off
	Reconciliation *core.ReconciliationError

	source      *excelize.File
	sourceSheet string
}

// RunID returns the id the run was logged under.
func (r *Result) RunID() string { return r.Report.RunID }

// Build loads the inputs and builds the report. Validation problems are
// returned as errors; reconciliation failures are not, they are recorded on
// the Result.
func (e *Engine) Build(ctx context.Context, req Request) (*Result, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	logger := e.logger.With("run_id", req.RunID)
	lopts := loader.NewOptions(e.settings, logger)
	ropts := report.NewOptions(e.settings, logger, req.RunID)

	if req.Combined == nil {
		return nil, errors.New("combined workbook is required")
	}
	logger.Debug("loading combined workbook", "file", req.Combined.Name(), "kind", req.Kind)
	ds, err := loader.LoadCombined(ctx, req.Combined, lopts)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var buildErr error
	switch req.Kind {
	case core.ReportTractBased:
		res.Report, buildErr = report.BuildTractBased(ds, ropts)
	case core.ReportUnitBased:
		if req.Schedule == nil {
			return nil, errors.New("schedule workbook is required for a unit-based report")
		}
		sched, err := loader.LoadSchedule(ctx, req.Schedule, lopts)
		if err != nil {
			return nil, err
		}
		res.source = req.Schedule.File()
		res.sourceSheet = sched.SheetName
		res.Report, buildErr = report.BuildUnitBased(ds, sched, ropts)
	default:
		return nil, fmt.Errorf("unknown report kind %q", req.Kind)
	}

	if buildErr != nil {
		if !errors.As(buildErr, &res.Reconciliation) || res.Report == nil {
			return nil, buildErr
		}
	}
	return res, nil
}

func (e *Engine) renderOptions(res *Result) render.Options {
	return render.Options{
		Logger:      e.logger.With("run_id", res.RunID()),
		Source:      res.source,
		SourceSheet: res.sourceSheet,
	}
}

// Write renders res as xlsx to w.
func (e *Engine) Write(w io.Writer, res *Result) error {
	return render.Write(w, res.Report, e.settings.Style, e.renderOptions(res))
}

// SaveAs renders res as xlsx at path.
func (e *Engine) SaveAs(path string, res *Result) error {
	opts := e.renderOptions(res)
	if err := render.SaveAs(path, res.Report, e.settings.Style, opts); err != nil {
		return err
	}
	opts.Logger.Info("wrote report", "kind", res.Report.Kind, "path", path)
	return nil
}

// Preview loads the inputs and summarises them. schedule may be nil.
func (e *Engine) Preview(ctx context.Context, combined workbook.Source, schedule workbook.Source) (*report.Preview, error) {
	lopts := loader.NewOptions(e.settings, e.logger)
	ds, err := loader.LoadCombined(ctx, combined, lopts)
	if err != nil {
		return nil, err
	}
	var sched *core.Schedule
	if schedule != nil {
		if sched, err = loader.LoadSchedule(ctx, schedule, lopts); err != nil {
			return nil, err
		}
	}
	return report.NewPreview(ds, sched), nil
}
