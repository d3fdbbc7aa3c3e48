// Package state keeps a history of report runs in SQLite.
//
// Each output directory gets its own database; the CLI records every
// generate run there, including runs that failed validation.
package state

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("run not found")

// RunStatus is the outcome of a report run.
type RunStatus string

// Run statuses.
const (
	RunStatusReconciled   RunStatus = "reconciled"
	RunStatusUnreconciled RunStatus = "unreconciled"
	RunStatusFailed       RunStatus = "failed"
)

// Run is one recorded report run.
type Run struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Combined string    `json:"combined"`
	Schedule string    `json:"schedule,omitempty"`
	Output   string    `json:"output,omitempty"`
	Status   RunStatus `json:"status"`
	TotalNRI string    `json:"total_nri,omitempty"`
	// Difference is the reconciliation gap of an unreconciled run
	Difference  string    `json:"difference,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Store records and lists runs.
type Store interface {
	RecordRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
