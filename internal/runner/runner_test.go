package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugrun/plugrun/internal/discovery"
	"github.com/plugrun/plugrun/internal/rule"
	"github.com/plugrun/plugrun/internal/testutil"
)

// fakeHost is a fully scripted Host for driver tests.
type fakeHost struct {
	name      string
	methods   []discovery.Descriptor
	fields    []rule.Field
	fieldsErr error
	invoke    func(ctx context.Context, d discovery.Descriptor) error
	lifecycle func(d discovery.Descriptor, inner rule.Statement) rule.Statement
}

func (h *fakeHost) SuiteName() string { return h.name }

func (h *fakeHost) Methods() ([]discovery.Descriptor, error) { return h.methods, nil }

func (h *fakeHost) RuleFields() ([]rule.Field, error) { return h.fields, h.fieldsErr }

func (h *fakeHost) MethodStatement(d discovery.Descriptor) rule.Statement {
	return rule.StatementFunc(func(ctx context.Context) error {
		if h.invoke == nil {
			return nil
		}
		return h.invoke(ctx, d)
	})
}

func (h *fakeHost) Lifecycle(d discovery.Descriptor, inner rule.Statement) rule.Statement {
	if h.lifecycle == nil {
		return inner
	}
	return h.lifecycle(d, inner)
}

func (h *fakeHost) Instance() any { return h }

func testMethods(methodNames ...string) []discovery.Descriptor {
	out := make([]discovery.Descriptor, len(methodNames))
	for i, n := range methodNames {
		out[i] = discovery.Descriptor{Name: n, Suite: "FakeSuite", Markers: []string{discovery.MarkerTest}}
	}
	return out
}

func quietRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.IDs == nil {
		opts.IDs = NewFixedGenerator("run-1", "run-2", "run-3")
	}
	return New(opts)
}

func TestRunner_DualRoleRuleInvokedExactlyOnce(t *testing.T) {
	rec := &testutil.Recorder{}
	h := &fakeHost{
		name:    "FakeSuite",
		methods: testMethods("TestOnly"),
		fields:  []rule.Field{{Value: &testutil.DualRule{Name: "dual", Rec: rec}}},
	}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.True(t, res.Pass())
	assert.Equal(t, []string{"dual"}, rec.Names(), "dual-role rule must activate once, not twice")
}

func TestRunner_ExplicitOrderInvocation(t *testing.T) {
	rec := &testutil.Recorder{}
	h := &fakeHost{
		name:    "FakeSuite",
		methods: testMethods("TestOnly"),
		fields: []rule.Field{
			{Value: &testutil.SuiteProbe{Name: "A", Rec: rec}, Order: 3, HasOrder: true},
			{Value: &testutil.SuiteProbe{Name: "B", Rec: rec}, Order: 1, HasOrder: true},
			{Value: &testutil.SuiteProbe{Name: "C", Rec: rec}, Order: 2, HasOrder: true},
		},
	}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.True(t, res.Pass())
	assert.Equal(t, []string{"B", "C", "A"}, rec.Names())
}

func TestRunner_ImplicitOrderIsReverseDeclaration(t *testing.T) {
	rec := &testutil.Recorder{}
	h := &fakeHost{
		name:    "FakeSuite",
		methods: testMethods("TestOnly"),
		fields: []rule.Field{
			{Value: &testutil.SuiteProbe{Name: "C", Rec: rec}},
			{Value: &testutil.SuiteProbe{Name: "A", Rec: rec}},
			{Value: &testutil.SuiteProbe{Name: "B", Rec: rec}},
		},
	}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.True(t, res.Pass())
	assert.Equal(t, []string{"B", "A", "C"}, rec.Names())
}

func TestRunner_CustomMarkerPolicy(t *testing.T) {
	methods := []discovery.Descriptor{
		{Name: "TestStandard", Suite: "FakeSuite", Markers: []string{discovery.MarkerTest}},
		{Name: "CheckCustom", Suite: "FakeSuite", Markers: []string{"custom_test"}},
	}

	invoked := map[string]int{}
	h := &fakeHost{
		name:    "FakeSuite",
		methods: methods,
		invoke: func(_ context.Context, d discovery.Descriptor) error {
			invoked[d.Name]++
			return nil
		},
	}

	// Default policy: only the conventional marker runs.
	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	// Widened policy: both markers run, one invocation each.
	invoked = map[string]int{}
	res, err = quietRunner(Options{
		Policy: discovery.NewPolicy(discovery.MarkerTest, "custom_test"),
	}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, map[string]int{"TestStandard": 1, "CheckCustom": 1}, invoked)
}

func TestRunner_ReversedSequencer(t *testing.T) {
	var order []string
	h := &fakeHost{
		name:    "FakeSuite",
		methods: testMethods("a", "b", "c"),
		invoke: func(_ context.Context, d discovery.Descriptor) error {
			order = append(order, d.Name)
			return nil
		},
	}

	res, err := quietRunner(Options{
		Sequencer: discovery.Reversed(discovery.Alphabetical()),
	}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.True(t, res.Pass())
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestRunner_EmptyRuleConfiguration(t *testing.T) {
	h := &fakeHost{name: "FakeSuite", methods: testMethods("TestA", "TestB")}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.True(t, res.Pass())
	assert.Equal(t, 2, res.Passed)
	for _, o := range res.Outcomes {
		assert.Equal(t, StatusPassed, o.Status)
		assert.NoError(t, o.Failure)
	}
}

func TestRunner_FailurePropagatesUnchanged(t *testing.T) {
	sentinel := errors.New("assertion blew up")
	rec := &testutil.Recorder{}
	h := &fakeHost{
		name:    "FakeSuite",
		methods: testMethods("TestBoom"),
		fields: []rule.Field{
			{Value: &testutil.SuiteProbe{Name: "outer", Rec: rec}},
			{Value: &testutil.MethodProbe{Name: "inner", Rec: rec}},
		},
		invoke: func(context.Context, discovery.Descriptor) error { return sentinel },
	}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)

	o := res.Outcomes[0]
	assert.Equal(t, StatusFailed, o.Status)
	assert.ErrorIs(t, o.Failure, sentinel, "failure identity must survive all wrapping layers")
	assert.Equal(t, []string{"outer", "inner"}, rec.Names())
}

func TestRunner_SetupFailureIsNotATestFailure(t *testing.T) {
	invoked := false
	h := &fakeHost{
		name:      "FakeSuite",
		methods:   testMethods("TestNever"),
		fieldsErr: rule.NewInvalidOrderTagError("Broken", "order=nope", errors.New("bad int")),
		invoke: func(context.Context, discovery.Descriptor) error {
			invoked = true
			return nil
		},
	}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)

	o := res.Outcomes[0]
	assert.Equal(t, StatusSetupFailed, o.Status)
	assert.True(t, rule.IsConfigError(o.Failure))
	assert.False(t, invoked, "no test code may run when setup fails")
	assert.False(t, res.Pass())
}

func TestRunner_LifecycleSitsBetweenChains(t *testing.T) {
	rec := &testutil.Recorder{}
	h := &fakeHost{
		name:    "FakeSuite",
		methods: testMethods("TestOnly"),
		fields: []rule.Field{
			{Value: &testutil.SuiteProbe{Name: "suite", Rec: rec}},
			{Value: &testutil.MethodProbe{Name: "method", Rec: rec}},
		},
		invoke: func(context.Context, discovery.Descriptor) error {
			rec.Add("base")
			return nil
		},
	}
	h.lifecycle = func(_ discovery.Descriptor, inner rule.Statement) rule.Statement {
		return rule.StatementFunc(func(ctx context.Context) error {
			rec.Add("setup")
			err := inner.Evaluate(ctx)
			rec.Add("teardown")
			return err
		})
	}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	assert.True(t, res.Pass())
	assert.Equal(t, []string{"suite", "setup", "method", "base", "teardown"}, rec.Names())
}

func TestRunner_Idempotence(t *testing.T) {
	run := func() (*Result, []string) {
		rec := &testutil.Recorder{}
		h := &fakeHost{
			name:    "FakeSuite",
			methods: testMethods("TestB", "TestA"),
			fields: []rule.Field{
				{Value: &testutil.SuiteProbe{Name: "x", Rec: rec}},
				{Value: &testutil.SuiteProbe{Name: "y", Rec: rec}},
			},
		}
		res, err := quietRunner(Options{IDs: NewFixedGenerator("fixed-run")}).
			Run(context.Background(), h, nil)
		require.NoError(t, err)
		return res, rec.Names()
	}

	first, firstOrder := run()
	second, secondOrder := run()

	assert.Equal(t, firstOrder, secondOrder, "composed order must be repeatable")
	assert.Equal(t, first.Passed, second.Passed)
	assert.Equal(t, first.Failed, second.Failed)
	require.Equal(t, len(first.Outcomes), len(second.Outcomes))
	for i := range first.Outcomes {
		assert.Equal(t, first.Outcomes[i].Method, second.Outcomes[i].Method)
		assert.Equal(t, first.Outcomes[i].Status, second.Outcomes[i].Status)
	}
}

func TestRunner_ReporterReceivesOutcomesInOrder(t *testing.T) {
	h := &fakeHost{name: "FakeSuite", methods: testMethods("TestB", "TestA")}

	var reported []string
	rep := ReporterFunc(func(_ context.Context, o Outcome) error {
		reported = append(reported, o.Method)
		return nil
	})

	_, err := quietRunner(Options{}).Run(context.Background(), h, rep)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestA", "TestB"}, reported)
}

func TestRunner_ReporterErrorAbortsRun(t *testing.T) {
	h := &fakeHost{name: "FakeSuite", methods: testMethods("TestA", "TestB")}

	sinkErr := errors.New("sink unavailable")
	rep := ReporterFunc(func(context.Context, Outcome) error { return sinkErr })

	_, err := quietRunner(Options{}).Run(context.Background(), h, rep)
	assert.ErrorIs(t, err, sinkErr)
}

func TestRunner_OutcomeSeqIsMonotonic(t *testing.T) {
	h := &fakeHost{name: "FakeSuite", methods: testMethods("TestA", "TestB", "TestC")}

	res, err := quietRunner(Options{}).Run(context.Background(), h, nil)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 3)
	for i := 1; i < len(res.Outcomes); i++ {
		assert.Greater(t, res.Outcomes[i].Seq, res.Outcomes[i-1].Seq)
	}
}

func TestRunner_CancelledContextStopsRun(t *testing.T) {
	h := &fakeHost{name: "FakeSuite", methods: testMethods("TestA")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietRunner(Options{}).Run(ctx, h, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
