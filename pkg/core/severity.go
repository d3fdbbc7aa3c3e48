package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a warning.
type Severity int

// Severity levels for warnings.
const (
	// SeverityError indicates a problem that makes part of the report unreliable.
	SeverityError Severity = iota
	// SeverityWarning indicates data that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improving the source data.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// =============================================================================
// Warning
// =============================================================================

// Warning codes.
const (
	WarnBlankTract       = "blank_tract"
	WarnOtherType        = "other_type"
	WarnMissingColumn    = "missing_column"
	WarnInvalidOptional  = "invalid_optional"
	WarnDroppedRow       = "dropped_row"
	WarnDuplicateTract   = "duplicate_tract"
	WarnAllocationTotal  = "allocation_total"
	WarnTractNRITotal    = "tract_nri_total"
	WarnBurdenedMismatch = "burdened_nri_mismatch"
	WarnReconciliation   = "reconciliation"
)

// Warning is a non-fatal finding reported alongside a dataset or report.
type Warning struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Sheet    string   `json:"sheet,omitempty"`
	Row      int      `json:"row,omitempty"`
	Tract    string   `json:"tract,omitempty"`
}

// String formats the warning for terminal output.
func (w Warning) String() string {
	loc := w.Sheet
	if w.Row > 0 {
		loc = fmt.Sprintf("%s row %d", loc, w.Row)
	}
	if loc != "" {
		return fmt.Sprintf("[%s] %s: %s", w.Severity, loc, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Severity, w.Message)
}
