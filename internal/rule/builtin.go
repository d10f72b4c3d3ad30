package rule

import (
	"context"
	"log/slog"
	"time"

	"github.com/plugrun/plugrun/internal/discovery"
)

// Built-in rules.

// TimingRule is a suite-scoped rule logging how long each test took,
// lifecycle hooks included.
type TimingRule struct {
	logger *slog.Logger
}

// NewTimingRule creates a timing rule logging to the given logger.
func NewTimingRule(logger *slog.Logger) *TimingRule {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimingRule{logger: logger}
}

// Apply implements SuiteRule.
func (r *TimingRule) Apply(base Statement, d discovery.Descriptor) Statement {
	return StatementFunc(func(ctx context.Context) error {
		start := time.Now()
		err := base.Evaluate(ctx)
		r.logger.Info("test finished",
			"suite", d.Suite,
			"method", d.Name,
			"duration", time.Since(start),
			"passed", err == nil,
		)
		return err
	})
}

// LoggingRule is a method-scoped rule logging entry and exit around the
// core method invocation, after lifecycle setup.
type LoggingRule struct {
	logger *slog.Logger
}

// NewLoggingRule creates a logging rule logging to the given logger.
func NewLoggingRule(logger *slog.Logger) *LoggingRule {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingRule{logger: logger}
}

// ApplyToMethod implements MethodRule.
func (r *LoggingRule) ApplyToMethod(base Statement, d discovery.Descriptor, _ any) Statement {
	return StatementFunc(func(ctx context.Context) error {
		r.logger.Info("invoking test method", "suite", d.Suite, "method", d.Name)
		err := base.Evaluate(ctx)
		if err != nil {
			r.logger.Error("test method failed", "suite", d.Suite, "method", d.Name, "error", err)
		}
		return err
	})
}
