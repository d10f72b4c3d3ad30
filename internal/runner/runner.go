package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plugrun/plugrun/internal/discovery"
	"github.com/plugrun/plugrun/internal/rule"
)

// State is a per-method execution state.
type State string

const (
	StateIdle          State = "idle"
	StateRulesComposed State = "rules_composed"
	StateRunning       State = "running"
	StatePassed        State = "passed"
	StateFailed        State = "failed"
)

// Host is the collaborator boundary to the surrounding test framework.
//
// The host owns instance construction and whatever reflection machinery
// enumerates methods and rule-bearing fields; the driver only consumes the
// results. Field enumeration must be stable and repeatable across runs for
// the same suite - ordering tie-breaks depend on it.
type Host interface {
	rule.FieldScanner

	// SuiteName identifies the suite, used in descriptors and reports.
	SuiteName() string

	// Methods enumerates the suite's methods with their marker metadata.
	// Classification happens in the driver, not here.
	Methods() ([]discovery.Descriptor, error)

	// MethodStatement builds the base "invoke this test method" action.
	MethodStatement(d discovery.Descriptor) rule.Statement

	// Lifecycle wraps inner with the suite's setup/teardown hooks.
	// Hosts without hooks return inner unchanged.
	Lifecycle(d discovery.Descriptor, inner rule.Statement) rule.Statement

	// Instance returns the suite instance methods are invoked on. It is
	// handed to method-scoped rules as their target.
	Instance() any
}

// ChainBuilder turns collected declarations into the suite-scoped and
// method-scoped chains. The default is rule.Composer's ordering algorithm;
// hosts may substitute a builder to replace the ordering policy wholesale.
type ChainBuilder func(decls []rule.Declaration) (suite, method rule.Chain, err error)

// Options configures a Runner. Zero-value fields take defaults.
type Options struct {
	// Policy is the set of recognized test markers.
	// Defaults to discovery.DefaultPolicy.
	Policy discovery.Policy

	// Sequencer orders the classified test methods.
	// Defaults to discovery.Alphabetical.
	Sequencer discovery.Sequencer

	// Chains builds the rule chains. Defaults to rule.Composer.
	Chains ChainBuilder

	// IDs generates run identifiers. Defaults to UUIDv7Generator.
	IDs RunIDGenerator

	// Logger receives execution diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Runner drives suite execution. Construct with New; safe to reuse across
// suites, but each Run is single-threaded and synchronous.
type Runner struct {
	policy    discovery.Policy
	sequencer discovery.Sequencer
	chains    ChainBuilder
	ids       RunIDGenerator
	clock     *Clock
	logger    *slog.Logger
	registry  rule.Registry
}

// New creates a Runner, filling unset options with defaults.
func New(opts Options) *Runner {
	if len(opts.Policy.Markers()) == 0 {
		opts.Policy = discovery.DefaultPolicy()
	}
	if opts.Sequencer == nil {
		opts.Sequencer = discovery.Alphabetical()
	}
	if opts.Chains == nil {
		opts.Chains = rule.Composer{}.Chains
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{
		policy:    opts.Policy,
		sequencer: opts.Sequencer,
		chains:    opts.Chains,
		ids:       opts.IDs,
		clock:     NewClock(),
		logger:    opts.Logger,
	}
}

// Run classifies and sequences the host's test methods, then executes each
// behind its composed rule chain, delivering every outcome to the reporter
// in execution order.
//
// A failing method does not stop the run; a failing reporter does, since
// outcomes would otherwise be lost silently.
func (r *Runner) Run(ctx context.Context, h Host, rep Reporter) (*Result, error) {
	if rep == nil {
		rep = NopReporter
	}

	methods, err := h.Methods()
	if err != nil {
		return nil, fmt.Errorf("enumerate methods: %w", err)
	}
	ordered := r.sequencer(discovery.Filter(methods, r.policy))

	result := &Result{
		RunID: r.ids.Generate(),
		Suite: h.SuiteName(),
	}
	r.logger.Info("suite run started",
		"run_id", result.RunID,
		"suite", result.Suite,
		"methods", len(ordered),
	)

	for _, d := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}

		outcome := r.runMethod(ctx, h, d)
		result.add(outcome)

		if err := rep.Report(ctx, outcome); err != nil {
			return nil, fmt.Errorf("report outcome for %s: %w", d.Name, err)
		}
	}

	r.logger.Info("suite run finished",
		"run_id", result.RunID,
		"suite", result.Suite,
		"passed", result.Passed,
		"failed", result.Failed,
	)
	return result, nil
}

// runMethod takes one method through the full state machine. All failure
// modes terminate in an Outcome; nothing is retried or swallowed.
func (r *Runner) runMethod(ctx context.Context, h Host, d discovery.Descriptor) Outcome {
	outcome := Outcome{
		Suite:  d.Suite,
		Method: d.Name,
		Seq:    r.clock.Next(),
	}

	state := StateIdle
	stmt, err := r.compose(h, d)
	if err != nil {
		// Setup failure: the chain never composed, no test code ran.
		r.transition(d, state, StateFailed)
		outcome.Status = StatusSetupFailed
		outcome.Failure = err
		outcome.FailureMessage = err.Error()
		return outcome
	}
	state = r.transition(d, state, StateRulesComposed)

	state = r.transition(d, state, StateRunning)
	start := time.Now()
	err = stmt.Evaluate(ctx)
	outcome.Duration = time.Since(start)

	if err != nil {
		r.transition(d, state, StateFailed)
		outcome.Status = StatusFailed
		outcome.Failure = err
		outcome.FailureMessage = err.Error()
		return outcome
	}
	r.transition(d, state, StatePassed)
	outcome.Status = StatusPassed
	return outcome
}

// compose builds the fully wrapped statement for one method: base action,
// then the method-scoped chain, then lifecycle hooks, then the suite-scoped
// chain outermost. Chains are rebuilt per method since rule state may be
// instance-scoped.
func (r *Runner) compose(h Host, d discovery.Descriptor) (rule.Statement, error) {
	decls, err := r.registry.Collect(h)
	if err != nil {
		return nil, fmt.Errorf("collect rule declarations: %w", err)
	}

	suiteChain, methodChain, err := r.chains(decls)
	if err != nil {
		return nil, fmt.Errorf("compose rule chains: %w", err)
	}

	stmt := methodChain.Wrap(h.MethodStatement(d), func(dec rule.Declaration, base rule.Statement) rule.Statement {
		return dec.Value.(rule.MethodRule).ApplyToMethod(base, d, h.Instance())
	})
	stmt = h.Lifecycle(d, stmt)
	stmt = suiteChain.Wrap(stmt, func(dec rule.Declaration, base rule.Statement) rule.Statement {
		return dec.Value.(rule.SuiteRule).Apply(base, d)
	})
	return stmt, nil
}

func (r *Runner) transition(d discovery.Descriptor, from, to State) State {
	r.logger.Debug("method state transition",
		"suite", d.Suite,
		"method", d.Name,
		"from", string(from),
		"to", string(to),
	)
	return to
}
