// Package report builds the in-memory DOI report model from loaded data.
//
// Builders are pure: they read a validated Dataset (and Schedule for unit
// reports), never touch the filesystem and return a *core.Report that the
// render package turns into a workbook.
package report

import (
	"log/slog"

	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/shopspring/decimal"
)

// Options configures a build.
type Options struct {
	Logger *slog.Logger
	// Basis selects how TRACT NRI is interpreted
	Basis core.NRIBasis
	// Tolerance bounds every reconciliation check
	Tolerance decimal.Decimal
	// RunID is copied onto the report
	RunID string
}

// NewOptions derives build options from settings.
func NewOptions(s *config.Settings, logger *slog.Logger, runID string) Options {
	return Options{
		Logger:    logger,
		Basis:     s.Basis(),
		Tolerance: s.ToleranceValue(),
		RunID:     runID,
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Basis == "" {
		o.Basis = core.BasisFactor
	}
	if o.Tolerance.IsZero() {
		o.Tolerance = decimal.RequireFromString(config.DefaultTolerance)
	}
	return o
}
