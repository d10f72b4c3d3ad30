package discovery

import (
	"math/rand"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sequencer produces the final execution order for a suite's classified
// test methods.
//
// A sequencer must not mutate its input and must be deterministic for the
// same input: ordering tie-breaks elsewhere in the engine depend on the
// sequence being repeatable across runs.
type Sequencer func([]Descriptor) []Descriptor

// Alphabetical returns the default sequencer: ascending by method name.
//
// Names are compared under the root-locale collation rather than raw byte
// order, so the result is fixed regardless of the process environment.
func Alphabetical() Sequencer {
	c := collate.New(language.Und)
	return func(ds []Descriptor) []Descriptor {
		out := make([]Descriptor, len(ds))
		copy(out, ds)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
		return out
	}
}

// Reversed wraps a sequencer, reversing its output.
func Reversed(s Sequencer) Sequencer {
	return func(ds []Descriptor) []Descriptor {
		ordered := s(ds)
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
		return ordered
	}
}

// Shuffled returns a sequencer applying a fixed-seed permutation to the
// alphabetical base order. The same seed always yields the same order.
func Shuffled(seed int64) Sequencer {
	base := Alphabetical()
	return func(ds []Descriptor) []Descriptor {
		ordered := base(ds)
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
		return ordered
	}
}
