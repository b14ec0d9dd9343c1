package state

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CreateRun records the start of an orchestrated invocation.
func (s *SQLiteStore) CreateRun(operation, projects, buildType string) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	run := &Run{
		ID:        uuid.New().String(),
		Operation: operation,
		Projects:  projects,
		BuildType: buildType,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating run",
		slog.String("id", run.ID),
		slog.String("operation", operation),
		slog.String("projects", projects))

	_, err := s.db.Exec(
		`INSERT INTO runs (id, operation, projects, build_type, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Operation, run.Projects, run.BuildType, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run finished with the given status.
func (s *SQLiteStore) CompleteRun(id string, status RunStatus, errMsg string) error {
	if s == nil || s.db == nil {
		return nil
	}

	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(status), errMsg, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// AddStep records one per-project phase outcome.
func (s *SQLiteStore) AddStep(runID, project, phase string, status StepStatus, duration time.Duration) error {
	if s == nil || s.db == nil {
		return nil
	}

	_, err := s.db.Exec(
		`INSERT INTO steps (run_id, project, phase, status, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, project, phase, string(status), duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to add step: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, operation, projects, build_type, status, error, started_at, completed_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var status string
		var completed sql.NullTime
		if err := rows.Scan(&r.ID, &r.Operation, &r.Projects, &r.BuildType, &status, &r.Error, &r.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Status = RunStatus(status)
		if completed.Valid {
			t := completed.Time
			r.CompletedAt = &t
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// GetSteps returns the recorded steps of a run in insertion order.
func (s *SQLiteStore) GetSteps(runID string) ([]*Step, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, project, phase, status, duration_ms
		 FROM steps WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get steps: %w", err)
	}
	defer rows.Close()

	var steps []*Step
	for rows.Next() {
		var st Step
		var status string
		if err := rows.Scan(&st.ID, &st.RunID, &st.Project, &st.Phase, &status, &st.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		st.Status = StepStatus(status)
		steps = append(steps, &st)
	}
	return steps, rows.Err()
}
