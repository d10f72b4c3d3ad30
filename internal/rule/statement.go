package rule

import (
	"context"

	"github.com/plugrun/plugrun/internal/discovery"
)

// Statement is a single executable unit: the base "run one test method"
// action, or that action wrapped by any number of rules.
type Statement interface {
	Evaluate(ctx context.Context) error
}

// StatementFunc adapts a function to the Statement interface.
type StatementFunc func(ctx context.Context) error

// Evaluate implements Statement.
func (f StatementFunc) Evaluate(ctx context.Context) error {
	return f(ctx)
}

// SuiteRule is the class-scoped interceptor role: it wraps execution of an
// entire test, lifecycle hooks included.
type SuiteRule interface {
	// Apply returns a statement wrapping base. Implementations must
	// delegate to base exactly once and surface its error unmodified
	// unless the rule itself fails.
	Apply(base Statement, d discovery.Descriptor) Statement
}

// MethodRule is the method-scoped interceptor role: it wraps only the core
// test-method invocation, after lifecycle setup has run.
type MethodRule interface {
	// ApplyToMethod returns a statement wrapping base. The target is the
	// suite instance the method will be invoked on.
	ApplyToMethod(base Statement, d discovery.Descriptor, target any) Statement
}
