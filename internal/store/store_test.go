package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugrun/plugrun/internal/runner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, st.Close())
}

func TestWriteRun_DuplicateIDIsIgnored(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteRun(ctx, "run-1", "MySuite", time.Now()))
	require.NoError(t, st.WriteRun(ctx, "run-1", "MySuite", time.Now()))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "MySuite", runs[0].Suite)
}

func TestWriteOutcome_CountersAndIdempotency(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteRun(ctx, "run-1", "MySuite", time.Now()))

	pass := runner.Outcome{Suite: "MySuite", Method: "TestA", Status: runner.StatusPassed, Seq: 1}
	fail := runner.Outcome{
		Suite: "MySuite", Method: "TestB", Status: runner.StatusFailed,
		Failure: errors.New("boom"), FailureMessage: "boom", Seq: 2,
	}

	require.NoError(t, st.WriteOutcome(ctx, "run-1", pass))
	require.NoError(t, st.WriteOutcome(ctx, "run-1", fail))
	// Replaying an outcome must not double-count.
	require.NoError(t, st.WriteOutcome(ctx, "run-1", pass))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Passed)
	assert.Equal(t, 1, runs[0].Failed)

	outcomes, err := st.RunOutcomes(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "TestA", outcomes[0].Method)
	assert.Empty(t, outcomes[0].FailureMessage, "passed outcomes store no failure")
	assert.Equal(t, "TestB", outcomes[1].Method)
	assert.Equal(t, "boom", outcomes[1].FailureMessage)
}

func TestListRuns_MostRecentFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	// UUIDv7-style IDs sort by creation time; plain ordering suffices here.
	require.NoError(t, st.WriteRun(ctx, "run-1", "SuiteA", time.Now()))
	require.NoError(t, st.WriteRun(ctx, "run-2", "SuiteB", time.Now()))
	require.NoError(t, st.WriteRun(ctx, "run-3", "SuiteC", time.Now()))

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
}

func TestWriteResult_PersistsWholeRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	res := &runner.Result{
		RunID: "run-7",
		Suite: "MySuite",
		Outcomes: []runner.Outcome{
			{Suite: "MySuite", Method: "TestA", Status: runner.StatusPassed, Seq: 3},
			{Suite: "MySuite", Method: "TestB", Status: runner.StatusSetupFailed, FailureMessage: "bad tag", Seq: 4},
		},
		Passed: 1,
		Failed: 1,
		Total:  2,
	}
	require.NoError(t, st.WriteResult(ctx, res))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Passed)
	assert.Equal(t, 1, runs[0].Failed)

	outcomes, err := st.RunOutcomes(ctx, "run-7")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, runner.StatusSetupFailed, outcomes[1].Status)
	assert.Equal(t, "bad tag", outcomes[1].FailureMessage)
}

func TestReporter_StreamsOutcomes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rep, err := NewReporter(ctx, st, "run-9", "MySuite")
	require.NoError(t, err)
	assert.Equal(t, "run-9", rep.RunID())

	require.NoError(t, rep.Report(ctx, runner.Outcome{
		Suite: "MySuite", Method: "TestA", Status: runner.StatusPassed, Seq: 1,
	}))
	require.NoError(t, rep.Report(ctx, runner.Outcome{
		Suite: "MySuite", Method: "TestB", Status: runner.StatusFailed, FailureMessage: "nope", Seq: 2,
	}))

	outcomes, err := st.RunOutcomes(ctx, "run-9")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, runner.StatusPassed, outcomes[0].Status)
	assert.Equal(t, runner.StatusFailed, outcomes[1].Status)
}

func TestRunOutcomes_UnknownRunIsEmpty(t *testing.T) {
	st := openTestStore(t)

	outcomes, err := st.RunOutcomes(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}
