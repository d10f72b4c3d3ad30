package store

import (
	"context"
	"fmt"
	"time"

	"github.com/plugrun/plugrun/internal/runner"
)

// Reporter adapts a Store to the driver's Reporter interface, recording
// each outcome under one run record as it is delivered.
type Reporter struct {
	store *Store
	runID string
}

// NewReporter creates the run record and returns a reporter appending
// outcomes to it.
func NewReporter(ctx context.Context, st *Store, runID, suite string) (*Reporter, error) {
	if err := st.WriteRun(ctx, runID, suite, time.Now()); err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}
	return &Reporter{store: st, runID: runID}, nil
}

// RunID returns the run this reporter records under.
func (r *Reporter) RunID() string {
	return r.runID
}

// Report implements runner.Reporter.
func (r *Reporter) Report(ctx context.Context, o runner.Outcome) error {
	return r.store.WriteOutcome(ctx, r.runID, o)
}

// WriteResult persists a completed run in one pass: the run record plus
// every outcome. Used when outcomes were not streamed through a Reporter.
func (s *Store) WriteResult(ctx context.Context, res *runner.Result) error {
	if err := s.WriteRun(ctx, res.RunID, res.Suite, time.Now()); err != nil {
		return err
	}
	for _, o := range res.Outcomes {
		if err := s.WriteOutcome(ctx, res.RunID, o); err != nil {
			return err
		}
	}
	return nil
}
