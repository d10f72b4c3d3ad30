package discovery

// IsTestMethod reports whether the method is a runnable test under the
// given policy.
//
// A method qualifies iff it carries at least one recognized marker.
// Pure function of method metadata and policy - no side effects.
func IsTestMethod(d Descriptor, p Policy) bool {
	for _, m := range d.Markers {
		if p.Recognizes(m) {
			return true
		}
	}
	return false
}

// Filter returns the descriptors classified as tests under the policy,
// preserving the input order. The input slice is not modified.
func Filter(ds []Descriptor, p Policy) []Descriptor {
	out := make([]Descriptor, 0, len(ds))
	for _, d := range ds {
		if IsTestMethod(d, p) {
			out = append(out, d)
		}
	}
	return out
}
