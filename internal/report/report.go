// Package report implements outcome sinks for the execution driver: a
// line-oriented text reporter and a JSON reporter. Both are pure
// formatters over the driver's outcomes; persistence lives in the store
// package.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/plugrun/plugrun/internal/runner"
)

// TextReporter streams one line per outcome to a writer and can append a
// run summary. Output is deterministic for deterministic outcomes, so it
// is golden-file comparable.
type TextReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewText creates a text reporter writing to w.
func NewText(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Report implements runner.Reporter.
func (r *TextReporter) Report(_ context.Context, o runner.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch o.Status {
	case runner.StatusPassed:
		_, err = fmt.Fprintf(r.w, "PASS %s\n", o.Method)
	case runner.StatusSetupFailed:
		_, err = fmt.Fprintf(r.w, "SETUP %s: %s\n", o.Method, o.FailureMessage)
	default:
		_, err = fmt.Fprintf(r.w, "FAIL %s: %s\n", o.Method, o.FailureMessage)
	}
	if err != nil {
		return fmt.Errorf("write outcome line: %w", err)
	}
	return nil
}

// Summary writes the run footer.
func (r *TextReporter) Summary(res *runner.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintf(r.w, "%d tests: %d passed, %d failed\n",
		res.Total, res.Passed, res.Failed); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// JSONReporter collects outcomes and emits the whole result as indented
// JSON once the run finishes.
type JSONReporter struct {
	w io.Writer
}

// NewJSON creates a JSON reporter writing to w.
func NewJSON(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

// Report implements runner.Reporter. Outcomes are already aggregated on
// the result, so per-outcome delivery is a no-op for JSON output.
func (r *JSONReporter) Report(context.Context, runner.Outcome) error {
	return nil
}

// Summary writes the aggregated result as indented JSON.
func (r *JSONReporter) Summary(res *runner.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// Multi fans outcomes out to several reporters in order, failing on the
// first reporter error.
func Multi(reps ...runner.Reporter) runner.Reporter {
	return runner.ReporterFunc(func(ctx context.Context, o runner.Outcome) error {
		for _, rep := range reps {
			if rep == nil {
				continue
			}
			if err := rep.Report(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
}
