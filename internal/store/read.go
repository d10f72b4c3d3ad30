package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plugrun/plugrun/internal/runner"
)

// RunRecord is one persisted suite run.
type RunRecord struct {
	ID        string `json:"id"`
	Suite     string `json:"suite"`
	StartedAt string `json:"started_at"`
	Passed    int    `json:"passed"`
	Failed    int    `json:"failed"`
}

// ListRuns returns up to limit runs, most recent first. Run IDs are
// UUIDv7 and therefore time-sortable, so ordering by ID is ordering by
// creation time.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, started_at, passed, failed
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Suite, &r.StartedAt, &r.Passed, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// RunOutcomes returns a run's outcomes in execution order (by seq).
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]runner.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.method, o.status, o.failure, o.seq, r.suite
		FROM outcomes o
		JOIN runs r ON r.id = o.run_id
		WHERE o.run_id = ?
		ORDER BY o.seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []runner.Outcome
	for rows.Next() {
		var (
			o       runner.Outcome
			failure sql.NullString
		)
		if err := rows.Scan(&o.Method, &o.Status, &failure, &o.Seq, &o.Suite); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if failure.Valid {
			o.FailureMessage = failure.String
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run outcomes: %w", err)
	}
	return outcomes, nil
}
