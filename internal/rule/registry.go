package rule

// Field is one rule-bearing field as reported by the host: its value and
// any explicit order metadata read from the declaration site.
type Field struct {
	Value    any
	Order    int
	HasOrder bool
}

// FieldScanner enumerates a suite instance's rule-bearing fields in a
// stable, deterministic order. The host adapter owns the enumeration
// convention (including where inherited fields fall); the registry only
// requires that the order is repeatable across runs for the same suite.
type FieldScanner interface {
	RuleFields() ([]Field, error)
}

// Registry collects declared rule instances from a suite instance.
type Registry struct{}

// Collect scans the host's rule-bearing fields and produces one
// declaration per field whose value satisfies at least one interceptor
// role. The field's enumeration index becomes the declaration position.
//
// Fields are read, never mutated; the resulting declarations hold
// read-only references to the field values.
func (Registry) Collect(scanner FieldScanner) ([]Declaration, error) {
	fields, err := scanner.RuleFields()
	if err != nil {
		return nil, err
	}

	decls := make([]Declaration, 0, len(fields))
	for pos, f := range fields {
		var roles RoleSet
		if _, ok := f.Value.(SuiteRule); ok {
			roles |= RoleSet(RoleSuite)
		}
		if _, ok := f.Value.(MethodRule); ok {
			roles |= RoleSet(RoleMethod)
		}
		if roles == 0 {
			continue
		}

		decls = append(decls, Declaration{
			Value:    f.Value,
			Order:    f.Order,
			HasOrder: f.HasOrder,
			Position: pos,
			Roles:    roles,
			identity: identityFor(f.Value, pos),
		})
	}
	return decls, nil
}
