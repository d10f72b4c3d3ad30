package discovery

import "sort"

// MarkerTest is the conventional marker carried by ordinary test methods.
// It is the only marker the default policy recognizes.
const MarkerTest = "test"

// Descriptor identifies a method eligible for execution.
//
// Descriptors are produced by the host adapter (which owns whatever
// reflection machinery enumerates methods) and consumed by classification
// and sequencing. They carry metadata only - no invocable reference.
type Descriptor struct {
	// Name is the method name within the suite.
	Name string

	// Suite is the name of the declaring suite type.
	Suite string

	// Markers are the marker tags present on the method.
	// A method with no markers is never a test.
	Markers []string
}

// HasMarker reports whether the descriptor carries the given marker.
func (d Descriptor) HasMarker(marker string) bool {
	for _, m := range d.Markers {
		if m == marker {
			return true
		}
	}
	return false
}

// Policy is the set of marker tags recognized as "this method is a test".
//
// The zero value recognizes nothing; use DefaultPolicy or NewPolicy.
type Policy struct {
	markers map[string]struct{}
}

// NewPolicy builds a policy recognizing exactly the given markers.
func NewPolicy(markers ...string) Policy {
	set := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		set[m] = struct{}{}
	}
	return Policy{markers: set}
}

// DefaultPolicy recognizes only the conventional test marker.
func DefaultPolicy() Policy {
	return NewPolicy(MarkerTest)
}

// Recognizes reports whether the policy recognizes the given marker.
func (p Policy) Recognizes(marker string) bool {
	_, ok := p.markers[marker]
	return ok
}

// Markers returns the recognized markers in sorted order.
func (p Policy) Markers() []string {
	out := make([]string, 0, len(p.markers))
	for m := range p.markers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
