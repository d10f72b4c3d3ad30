package store

import (
	"context"
	"fmt"
	"time"

	"github.com/plugrun/plugrun/internal/runner"
)

// WriteRun inserts a run record. Uses ON CONFLICT(id) DO NOTHING for
// idempotency - re-recording the same run ID is silently ignored.
func (s *Store) WriteRun(ctx context.Context, runID, suite string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, suite, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		runID,
		suite,
		startedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteOutcome inserts one method outcome and bumps the run's counters.
// Each (run, method) pair accepts exactly one outcome: the engine never
// retries, so a second write for the same pair is silently ignored.
func (s *Store) WriteOutcome(ctx context.Context, runID string, o runner.Outcome) error {
	var failure any
	if o.Status != runner.StatusPassed {
		failure = o.FailureMessage
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (run_id, method, status, failure, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, method) DO NOTHING
	`,
		runID,
		o.Method,
		string(o.Status),
		failure,
		o.Seq,
	)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	if inserted == 0 {
		return nil
	}

	column := "failed"
	if o.Status == runner.StatusPassed {
		column = "passed"
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE runs SET %s = %s + 1 WHERE id = ?", column, column),
		runID,
	)
	if err != nil {
		return fmt.Errorf("update run counters: %w", err)
	}
	return nil
}
