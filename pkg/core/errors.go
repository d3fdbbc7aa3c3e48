package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationKind classifies a ValidationError.
type ValidationKind string

// Validation kinds.
const (
	MissingSheet   ValidationKind = "missing_sheet"
	MissingColumns ValidationKind = "missing_columns"
	InvalidValue   ValidationKind = "invalid_value"
	DuplicateTract ValidationKind = "duplicate_tract"
	UnknownTract   ValidationKind = "unknown_tract"
	NoRecords      ValidationKind = "no_records"
	RowLimit       ValidationKind = "row_limit"
)

// ValidationError reports an input problem the user must fix in the source file.
// Several problems found in one pass are combined with errors.Join.
type ValidationError struct {
	Kind ValidationKind
	// File names the input ("combined", "schedule") when known
	File  string
	Sheet string
	// Sheets lists the sheets examined when no matching sheet was found
	Sheets []string
	// Columns lists every missing column
	Columns []string
	Tract   string
	// Row is the 1-based spreadsheet row, 0 when not row-specific
	Row    int
	Column string
	Value  string
	// Limit is the configured ceiling for RowLimit errors
	Limit int
	// Detail adds free-form context
	Detail string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case MissingSheet:
		fmt.Fprintf(&b, "%s: no sheet matching %q found", e.source(), e.Sheet)
		if len(e.Sheets) > 0 {
			fmt.Fprintf(&b, " (sheets: %s)", strings.Join(e.Sheets, ", "))
		}
		b.WriteString("\nHint: rename the data sheet or set the sheet name in leapdoi.yaml")
	case MissingColumns:
		fmt.Fprintf(&b, "%s: sheet %q is missing required columns: %s", e.source(), e.Sheet, strings.Join(e.Columns, ", "))
		b.WriteString("\nHint: the header row must contain OWNER, TYPE and TRACT")
	case InvalidValue:
		fmt.Fprintf(&b, "%s: sheet %q row %d column %s: invalid value %q", e.source(), e.Sheet, e.Row, e.Column, e.Value)
	case DuplicateTract:
		fmt.Fprintf(&b, "%s: tract %q appears more than once with conflicting allocation factors", e.source(), e.Tract)
		if e.Row > 0 {
			fmt.Fprintf(&b, " (row %d)", e.Row)
		}
	case UnknownTract:
		fmt.Fprintf(&b, "%s: tract %q has no allocation entry in the schedule", e.source(), e.Tract)
		if e.Row > 0 {
			fmt.Fprintf(&b, " (first seen on row %d)", e.Row)
		}
		b.WriteString("\nHint: add the tract to the schedule's Tract List")
	case NoRecords:
		fmt.Fprintf(&b, "%s: sheet %q contains no usable records", e.source(), e.Sheet)
	case RowLimit:
		fmt.Fprintf(&b, "%s: sheet %q has more than %d data rows", e.source(), e.Sheet, e.Limit)
	default:
		fmt.Fprintf(&b, "%s: validation failed", e.source())
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

func (e *ValidationError) source() string {
	if e.File == "" {
		return "input"
	}
	return e.File
}

// TractDiscrepancy records a tract whose NRI does not sum to the expected total.
type TractDiscrepancy struct {
	Tract    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

// ReconciliationError reports computed totals that fail the expected invariant.
// The report it accompanies is complete and may still be inspected.
type ReconciliationError struct {
	// Scope names the invariant ("unit nri total", "recap grand total")
	Scope      string
	Expected   decimal.Decimal
	Actual     decimal.Decimal
	Difference decimal.Decimal
	Tolerance  decimal.Decimal
	Tracts     []TractDiscrepancy
}

// NewReconciliationError builds a ReconciliationError from expected and actual totals.
func NewReconciliationError(scope string, expected, actual, tolerance decimal.Decimal) *ReconciliationError {
	return &ReconciliationError{
		Scope:      scope,
		Expected:   expected,
		Actual:     actual,
		Difference: actual.Sub(expected),
		Tolerance:  tolerance,
	}
}

func (e *ReconciliationError) Error() string {
	msg := fmt.Sprintf("%s is %s, expected %s (difference %s exceeds tolerance %s)",
		e.Scope, e.Actual.StringFixed(8), e.Expected.StringFixed(8),
		e.Difference.StringFixed(8), e.Tolerance.String())
	if len(e.Tracts) > 0 {
		parts := make([]string, 0, len(e.Tracts))
		for _, t := range e.Tracts {
			parts = append(parts, fmt.Sprintf("%s=%s", t.Tract, t.Actual.StringFixed(8)))
		}
		msg += "; tracts off balance: " + strings.Join(parts, ", ")
	}
	return msg
}

// WithinTolerance reports whether |a-b| <= tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// ValidationErrors returns every *ValidationError in err's tree, including
// those combined with errors.Join or wrapped with %w, in order.
func ValidationErrors(err error) []*ValidationError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ValidationError:
		return []*ValidationError{e}
	case interface{ Unwrap() []error }:
		var out []*ValidationError
		for _, inner := range e.Unwrap() {
			out = append(out, ValidationErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return ValidationErrors(e.Unwrap())
	}
	return nil
}
