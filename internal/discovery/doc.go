// Package discovery decides which methods of a test suite are runnable
// tests and in what order they run.
//
// Both decisions are swappable policies rather than fixed behavior:
//
// Classification:
// A method is a test iff it carries at least one marker recognized by the
// active Policy. The default policy recognizes only the conventional "test"
// marker; hosts add custom markers (e.g. a parameterized-test marker) by
// constructing a wider policy, without touching classification logic.
//
// Sequencing:
// A Sequencer maps the classified descriptors to their final execution
// order. The default is alphabetical by method name under a fixed collation,
// so the order is stable across runs and locales. Hosts substitute their own
// Sequencer to reverse, shuffle with a fixed seed, or apply any custom
// comparator.
//
// Classification and sequencing are pure functions of method metadata; the
// package never invokes anything.
package discovery
