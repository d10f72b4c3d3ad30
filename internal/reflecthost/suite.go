// Package reflecthost adapts a plain Go struct into a runner.Host.
//
// It supplies the reflection machinery the engine itself stays out of:
// enumerating a suite's methods and rule-bearing fields in a stable order
// and building the base invocation statement for each method.
//
// CONVENTIONS:
//
// Test methods are exported methods on the suite pointer with signature
// func(context.Context) error. Markers come from a configurable
// name-prefix table; by default methods starting with "Test" carry the
// conventional test marker. Additional prefixes register additional
// markers without changing classification logic.
//
// Rule-bearing fields are exported struct fields whose values implement
// rule.SuiteRule or rule.MethodRule. An explicit order is declared with a
// struct tag:
//
//	Quiet  *LoggingRule `rule:"order=2"`
//	Timer  *TimingRule  // no tag: implicit, host-framework reverse order
//	Hidden *TimingRule  `rule:"-"` // never collected
//
// Fields enumerate in source declaration order; embedded struct fields
// expand in place by default, or hoist before all outer fields with
// EmbeddedFirst. Either way the order is fixed per suite type, which the
// engine's ordering tie-breaks require.
package reflecthost

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/plugrun/plugrun/internal/discovery"
	"github.com/plugrun/plugrun/internal/rule"
)

// SetUpper is the per-method setup hook. It runs inside the suite-scoped
// chain, before the method-scoped chain and the method itself.
type SetUpper interface {
	SetUp(ctx context.Context) error
}

// TearDowner is the per-method teardown hook. It runs even when the
// method fails; the method's failure takes precedence over a teardown
// failure.
type TearDowner interface {
	TearDown(ctx context.Context) error
}

// Suite wraps a suite struct pointer as a runner.Host.
type Suite struct {
	target        reflect.Value // pointer to the suite struct
	prefixes      map[string]string
	embeddedFirst bool
}

// Option configures a Suite.
type Option func(*Suite)

// WithPrefix registers an additional method-name prefix carrying the
// given marker, e.g. WithPrefix("Check", "custom_test").
func WithPrefix(prefix, marker string) Option {
	return func(s *Suite) {
		s.prefixes[prefix] = marker
	}
}

// WithEmbeddedFirst enumerates embedded (inherited) struct fields before
// the suite's own fields instead of expanding them in place.
func WithEmbeddedFirst() Option {
	return func(s *Suite) {
		s.embeddedFirst = true
	}
}

// New wraps target, which must be a non-nil pointer to a struct.
func New(target any, opts ...Option) (*Suite, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("reflecthost: target must be a non-nil struct pointer, got %T", target)
	}

	s := &Suite{
		target:   v,
		prefixes: map[string]string{"Test": discovery.MarkerTest},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SuiteName returns the suite struct's type name.
func (s *Suite) SuiteName() string {
	return s.target.Elem().Type().Name()
}

// Instance returns the wrapped suite pointer.
func (s *Suite) Instance() any {
	return s.target.Interface()
}

// Methods enumerates the suite's candidate test methods with their
// markers. Only exported methods with signature func(context.Context)
// error and a name matching a registered prefix are reported. Reflection
// lists methods in lexicographic order, so the enumeration is stable.
func (s *Suite) Methods() ([]discovery.Descriptor, error) {
	t := s.target.Type()
	suiteName := s.SuiteName()

	var ds []discovery.Descriptor
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !isTestSignature(m.Type) {
			continue
		}

		var markers []string
		for prefix, marker := range s.prefixes {
			if strings.HasPrefix(m.Name, prefix) && len(m.Name) > len(prefix) {
				markers = append(markers, marker)
			}
		}
		if len(markers) == 0 {
			continue
		}

		ds = append(ds, discovery.Descriptor{
			Name:    m.Name,
			Suite:   suiteName,
			Markers: markers,
		})
	}
	return ds, nil
}

// isTestSignature reports whether the method type is
// func(receiver, context.Context) error.
func isTestSignature(t reflect.Type) bool {
	if t.NumIn() != 2 || t.NumOut() != 1 {
		return false
	}
	ctxType := reflect.TypeOf((*context.Context)(nil)).Elem()
	errType := reflect.TypeOf((*error)(nil)).Elem()
	return t.In(1) == ctxType && t.Out(0) == errType
}

// RuleFields enumerates rule-bearing fields in stable declaration order.
// Values are read-only references; the fields themselves are never
// written.
func (s *Suite) RuleFields() ([]rule.Field, error) {
	return s.collectFields(s.target.Elem())
}

func (s *Suite) collectFields(v reflect.Value) ([]rule.Field, error) {
	t := v.Type()
	var fields []rule.Field

	appendField := func(sf reflect.StructField, fv reflect.Value) error {
		if !sf.IsExported() {
			return nil
		}
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			return nil
		}

		tag := sf.Tag.Get("rule")
		if tag == "-" {
			return nil
		}

		value := fv.Interface()
		_, isSuite := value.(rule.SuiteRule)
		_, isMethod := value.(rule.MethodRule)
		if !isSuite && !isMethod {
			return nil
		}

		f := rule.Field{Value: value}
		if tag != "" {
			order, err := parseOrderTag(tag)
			if err != nil {
				return rule.NewInvalidOrderTagError(sf.Name, tag, err)
			}
			f.Order = order
			f.HasOrder = true
		}
		fields = append(fields, f)
		return nil
	}

	walk := func(embedded bool) error {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				if embedded != s.embeddedFirst {
					continue
				}
				inner, err := s.collectFields(v.Field(i))
				if err != nil {
					return err
				}
				fields = append(fields, inner...)
				continue
			}
			if embedded {
				continue
			}
			if err := appendField(sf, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	}

	if s.embeddedFirst {
		if err := walk(true); err != nil {
			return nil, err
		}
	}
	if err := walk(false); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseOrderTag parses a `rule:"order=N"` tag value.
func parseOrderTag(tag string) (int, error) {
	raw, ok := strings.CutPrefix(tag, "order=")
	if !ok {
		return 0, fmt.Errorf("expected order=<int>")
	}
	return strconv.Atoi(raw)
}

// MethodStatement builds the base action invoking the named method on the
// suite instance. The failure returned by the method propagates unchanged.
func (s *Suite) MethodStatement(d discovery.Descriptor) rule.Statement {
	m := s.target.MethodByName(d.Name)
	return rule.StatementFunc(func(ctx context.Context) error {
		if !m.IsValid() {
			return fmt.Errorf("reflecthost: suite %s has no method %s", d.Suite, d.Name)
		}
		out := m.Call([]reflect.Value{reflect.ValueOf(ctx)})
		if err, ok := out[0].Interface().(error); ok && err != nil {
			return err
		}
		return nil
	})
}

// Lifecycle wraps inner with the suite's SetUp/TearDown hooks when the
// suite declares them. TearDown always runs; an inner failure wins over a
// teardown failure.
func (s *Suite) Lifecycle(d discovery.Descriptor, inner rule.Statement) rule.Statement {
	setUpper, hasSetUp := s.Instance().(SetUpper)
	tearDowner, hasTearDown := s.Instance().(TearDowner)
	if !hasSetUp && !hasTearDown {
		return inner
	}

	return rule.StatementFunc(func(ctx context.Context) error {
		if hasSetUp {
			if err := setUpper.SetUp(ctx); err != nil {
				return fmt.Errorf("set up %s: %w", d.Name, err)
			}
		}
		evalErr := inner.Evaluate(ctx)
		if hasTearDown {
			if err := tearDowner.TearDown(ctx); err != nil && evalErr == nil {
				evalErr = fmt.Errorf("tear down %s: %w", d.Name, err)
			}
		}
		return evalErr
	})
}
