// Package testutil provides deterministic helpers for engine tests:
// activation recorders and named probe rules for asserting composed
// invocation order.
package testutil

import (
	"context"
	"sync"

	"github.com/plugrun/plugrun/internal/discovery"
	"github.com/plugrun/plugrun/internal/rule"
)

// Recorder collects rule activation names in invocation order.
//
// Thread-safe for defensive reasons, though the engine invokes chains on
// a single goroutine.
type Recorder struct {
	mu    sync.Mutex
	names []string
}

// Add records one activation.
func (r *Recorder) Add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

// Names returns the recorded activations in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Reset clears the recorder for reuse.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = nil
}

// DualRule records an activation before delegating and satisfies BOTH
// interceptor roles, mirroring rules declared once but discoverable under
// either scope. Dedup must fold it into the chain exactly once.
type DualRule struct {
	Name string
	Rec  *Recorder
}

// Apply implements rule.SuiteRule.
func (n *DualRule) Apply(base rule.Statement, _ discovery.Descriptor) rule.Statement {
	return n.record(base)
}

// ApplyToMethod implements rule.MethodRule.
func (n *DualRule) ApplyToMethod(base rule.Statement, _ discovery.Descriptor, _ any) rule.Statement {
	return n.record(base)
}

func (n *DualRule) record(base rule.Statement) rule.Statement {
	return rule.StatementFunc(func(ctx context.Context) error {
		n.Rec.Add(n.Name)
		return base.Evaluate(ctx)
	})
}

// SuiteProbe is a suite-scoped-only recording rule.
type SuiteProbe struct {
	Name string
	Rec  *Recorder
}

// Apply implements rule.SuiteRule.
func (p *SuiteProbe) Apply(base rule.Statement, _ discovery.Descriptor) rule.Statement {
	return rule.StatementFunc(func(ctx context.Context) error {
		p.Rec.Add(p.Name)
		return base.Evaluate(ctx)
	})
}

// MethodProbe is a method-scoped-only recording rule.
type MethodProbe struct {
	Name string
	Rec  *Recorder
}

// ApplyToMethod implements rule.MethodRule.
func (p *MethodProbe) ApplyToMethod(base rule.Statement, _ discovery.Descriptor, _ any) rule.Statement {
	return rule.StatementFunc(func(ctx context.Context) error {
		p.Rec.Add(p.Name)
		return base.Evaluate(ctx)
	})
}
