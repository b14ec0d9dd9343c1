// Package state records orchestration runs in a local SQLite database
// so operators can inspect what was built, when, and how it ended.
package state

import (
	"time"
)

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus is the outcome of one orchestrated step.
type StepStatus string

const (
	StepStatusOK      StepStatus = "ok"
	StepStatusFailed  StepStatus = "failed"
	StepStatusSkipped StepStatus = "skipped"
)

// Run is one orchestrated invocation (build, clean or lint).
type Run struct {
	ID          string
	Operation   string
	Projects    string // comma-joined closure, in execution order
	BuildType   string
	Status      RunStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Step is one per-project phase within a run.
type Step struct {
	ID         int64
	RunID      string
	Project    string
	Phase      string // cpp or python
	Status     StepStatus
	DurationMS int64
}

// Store persists runs and steps. A nil *SQLiteStore is a valid no-op
// store so recording stays optional.
type Store interface {
	CreateRun(operation, projects, buildType string) (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string) error
	AddStep(runID, project, phase string, status StepStatus, duration time.Duration) error
	ListRuns(limit int) ([]*Run, error)
	GetSteps(runID string) ([]*Step, error)
	Close() error
}
