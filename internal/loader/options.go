// Package loader reads and validates the Combined ownership workbook and the
// unit Schedule workbook.
//
// Loading never panics on bad input: structural problems come back as
// *core.ValidationError values (joined with errors.Join when there are
// several) and recoverable oddities are attached to the result as warnings.
package loader

import (
	"log/slog"

	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/shopspring/decimal"
)

// Input names used in validation errors.
const (
	FileCombined = "combined"
	FileSchedule = "schedule"
)

// Options configures a load.
type Options struct {
	Logger         *slog.Logger
	DataSheet      string
	TractListSheet string
	HeaderScanRows int
	MaxRows        int
	NumericPolicy  config.NumericPolicy
	// Tolerance bounds the allocation total check
	Tolerance decimal.Decimal
}

// NewOptions derives load options from settings.
func NewOptions(s *config.Settings, logger *slog.Logger) Options {
	return Options{
		Logger:         logger,
		DataSheet:      s.DataSheet,
		TractListSheet: s.TractListSheet,
		HeaderScanRows: s.HeaderScanRows,
		MaxRows:        s.MaxRows,
		NumericPolicy:  s.NumericPolicy,
		Tolerance:      s.ToleranceValue(),
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.DataSheet == "" {
		o.DataSheet = config.DefaultDataSheet
	}
	if o.TractListSheet == "" {
		o.TractListSheet = config.DefaultTractListSheet
	}
	if o.HeaderScanRows <= 0 {
		o.HeaderScanRows = config.DefaultHeaderScanRows
	}
	if o.MaxRows <= 0 {
		o.MaxRows = config.DefaultMaxRows
	}
	if o.NumericPolicy == "" {
		o.NumericPolicy = config.DefaultNumericPolicy
	}
	if o.Tolerance.IsZero() {
		o.Tolerance = decimal.RequireFromString(config.DefaultTolerance)
	}
	return o
}
