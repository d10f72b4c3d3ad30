// Package rule implements the interceptor ("rule") model of the engine:
// collecting declared rules from a suite, ordering them deterministically,
// and folding them into a single wrapped statement around a base action.
//
// MODEL:
//
// A rule wraps a Statement in a new Statement that performs work before and
// after delegating to the base. One declared value may play two roles at
// once: suite-scoped (wraps the whole test, lifecycle hooks included) and
// method-scoped (wraps only the core method invocation). A dual-role value
// is folded into exactly one chain so it activates once per test, never
// twice.
//
// ORDERING:
//
// Rules with an explicit order run in ascending order value, outermost
// first; ties break by declaration position. Rules without an explicit
// order run outside all explicitly ordered rules, and among themselves in
// REVERSE declaration position: the last-declared rule is the outermost
// wrapper. That reverse convention mirrors the host test framework's native
// rule ordering and is preserved exactly for drop-in compatibility.
//
// Chains are rebuilt per test method (rule state may be instance-scoped)
// and are immutable once constructed.
package rule
