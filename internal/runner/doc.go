// Package runner implements the execution driver: it ties classification,
// sequencing, and rule composition together and invokes each test method
// behind its fully composed chain.
//
// Per test method the driver moves through a small state machine:
//
//	Idle -> RulesComposed -> Running -> Passed | Failed
//
// Idle -> RulesComposed builds the base invocation statement, collects and
// composes the rule chains, folds the method-scoped chain around the base,
// wraps that in the host's lifecycle hooks, and folds the suite-scoped
// chain around the whole block. RulesComposed -> Running invokes the
// wrapped statement exactly once. There are no retries and no partial
// chains: either the full composed chain runs or setup fails before any
// test code does.
//
// Chains are rebuilt for every method because rule state may be
// instance-scoped. Execution is single-threaded and synchronous; the
// driver neither parallelizes methods nor synchronizes whatever state rule
// instances choose to share.
//
// Swappable policies (annotation policy, sequencer, chain builder) are
// injected through Options at construction. The defaults reproduce the
// host framework's native behavior.
package runner
