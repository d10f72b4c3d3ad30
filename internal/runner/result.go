package runner

import (
	"context"
	"time"
)

// Status is a terminal per-method outcome.
type Status string

const (
	// StatusPassed indicates the wrapped invocation completed without a
	// failure signal.
	StatusPassed Status = "passed"

	// StatusFailed indicates the base action or a wrapping rule signaled
	// a failure, surfaced unmodified.
	StatusFailed Status = "failed"

	// StatusSetupFailed indicates chain composition failed before any
	// test code ran (a configuration error, not a test failure).
	StatusSetupFailed Status = "setup_failed"
)

// Outcome records the terminal result of one test method.
type Outcome struct {
	// Suite is the declaring suite name.
	Suite string `json:"suite"`

	// Method is the test method name.
	Method string `json:"method"`

	// Status is the terminal state reached.
	Status Status `json:"status"`

	// Failure is the propagated failure, nil for passed outcomes.
	// The original error identity is preserved end to end.
	Failure error `json:"-"`

	// FailureMessage mirrors Failure for serialized reports.
	FailureMessage string `json:"failure,omitempty"`

	// Seq is the logical clock stamp ordering outcomes within a run.
	Seq int64 `json:"seq"`

	// Duration is the wall time spent inside the composed chain.
	Duration time.Duration `json:"-"`
}

// Result aggregates the outcomes of one suite run.
type Result struct {
	RunID    string    `json:"run_id"`
	Suite    string    `json:"suite"`
	Outcomes []Outcome `json:"outcomes"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Total    int       `json:"total"`
}

// Pass reports whether every method reached StatusPassed.
func (r *Result) Pass() bool {
	return r.Failed == 0
}

// add records an outcome and updates the counters.
func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Total++
	if o.Status == StatusPassed {
		r.Passed++
	} else {
		r.Failed++
	}
}

// Reporter is the sink outcomes are delivered to, one per test method, in
// execution order.
type Reporter interface {
	Report(ctx context.Context, o Outcome) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, o Outcome) error

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, o Outcome) error {
	return f(ctx, o)
}

// NopReporter discards all outcomes.
var NopReporter = ReporterFunc(func(context.Context, Outcome) error { return nil })
