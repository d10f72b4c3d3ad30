// Package manifest loads and validates the engine's run configuration.
//
// A manifest is a YAML file selecting the swappable policies: recognized
// test markers, method-name prefixes, sequencing order, rule-field
// enumeration convention, and the optional run-history store. The decoded
// document is validated against an embedded CUE schema, so configuration
// mistakes surface as load-time errors with field positions rather than
// as silent behavior changes.
package manifest

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/plugrun/plugrun/internal/discovery"
	"github.com/plugrun/plugrun/internal/reflecthost"
)

//go:embed schema.cue
var schemaCUE string

// Order names a sequencing policy.
const (
	OrderAlphabetical = "alphabetical"
	OrderReverse      = "reverse"
	OrderShuffle      = "shuffle"
)

// Manifest is the run configuration for one engine invocation.
type Manifest struct {
	// Markers recognized as tests, beyond those implied by Prefixes.
	Markers []string `yaml:"markers,omitempty" json:"markers,omitempty"`

	// Prefixes maps method-name prefixes to the marker they carry.
	Prefixes map[string]string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`

	// Order selects the sequencing policy. Defaults to alphabetical.
	Order string `yaml:"order,omitempty" json:"order"`

	// Seed fixes the permutation when Order is shuffle.
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	// EmbeddedFirst hoists embedded struct fields during rule scanning.
	EmbeddedFirst bool `yaml:"embedded_first,omitempty" json:"embedded_first"`

	// StorePath is the run-history database; empty disables persistence.
	StorePath string `yaml:"store,omitempty" json:"store,omitempty"`
}

// Default returns the manifest used when no file is given: default marker,
// Test prefix, alphabetical order, no persistence.
func Default() *Manifest {
	return &Manifest{Order: OrderAlphabetical}
}

// Load reads, decodes, and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m := Default()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Order == "" {
		m.Order = OrderAlphabetical
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest against the embedded CUE schema.
func (m *Manifest) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Manifest"))
	if !def.Exists() {
		return fmt.Errorf("schema missing #Manifest definition")
	}

	unified := def.Unify(ctx.Encode(m))
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}
	return nil
}

// Policy builds the recognized-marker set: the default marker, every
// marker a prefix maps to, and any extra markers listed explicitly.
func (m *Manifest) Policy() discovery.Policy {
	markers := []string{discovery.MarkerTest}
	for _, marker := range m.Prefixes {
		markers = append(markers, marker)
	}
	markers = append(markers, m.Markers...)
	return discovery.NewPolicy(markers...)
}

// Sequencer builds the configured sequencing policy.
func (m *Manifest) Sequencer() discovery.Sequencer {
	switch m.Order {
	case OrderReverse:
		return discovery.Reversed(discovery.Alphabetical())
	case OrderShuffle:
		return discovery.Shuffled(m.Seed)
	default:
		return discovery.Alphabetical()
	}
}

// HostOptions builds the reflecthost options the manifest implies.
func (m *Manifest) HostOptions() []reflecthost.Option {
	var opts []reflecthost.Option
	for prefix, marker := range m.Prefixes {
		opts = append(opts, reflecthost.WithPrefix(prefix, marker))
	}
	if m.EmbeddedFirst {
		opts = append(opts, reflecthost.WithEmbeddedFirst())
	}
	return opts
}
