package rule

import "sort"

// Chain is a fixed total order of declarations, outermost first.
// Immutable once constructed; built fresh per test execution.
type Chain struct {
	decls []Declaration
}

// Len returns the number of declarations in the chain.
func (c Chain) Len() int {
	return len(c.decls)
}

// Declarations returns a copy of the chain's declarations, outermost first.
func (c Chain) Declarations() []Declaration {
	out := make([]Declaration, len(c.decls))
	copy(out, c.decls)
	return out
}

// Wrap folds the chain around base. Walking the sequence from last to
// first, each declaration wraps the statement produced so far, so the
// chain's first declaration ends up outermost.
func (c Chain) Wrap(base Statement, apply func(Declaration, Statement) Statement) Statement {
	for i := len(c.decls) - 1; i >= 0; i-- {
		base = apply(c.decls[i], base)
	}
	return base
}

// Composer deduplicates and totally orders collected declarations into one
// chain per interceptor role.
type Composer struct{}

// Chains splits the declarations by role and orders each group.
//
// A declaration discoverable under both roles is kept only in the
// suite-scoped chain and skipped when building the method-scoped chain,
// guaranteeing a single activation per test. The same applies when one
// instance is declared through two fields: identity, not role, decides.
func (Composer) Chains(decls []Declaration) (suite Chain, method Chain, err error) {
	suiteSeen := make(map[string]struct{})

	var suiteGroup, methodGroup []Declaration
	for _, d := range decls {
		if d.Roles.Has(RoleSuite) {
			suiteGroup = append(suiteGroup, d)
			suiteSeen[d.identity] = struct{}{}
		}
	}
	for _, d := range decls {
		if !d.Roles.Has(RoleMethod) {
			continue
		}
		if _, dup := suiteSeen[d.identity]; dup {
			continue
		}
		methodGroup = append(methodGroup, d)
	}

	ordered, err := orderGroup(suiteGroup)
	if err != nil {
		return Chain{}, Chain{}, err
	}
	suite = Chain{decls: ordered}

	ordered, err = orderGroup(methodGroup)
	if err != nil {
		return Chain{}, Chain{}, err
	}
	method = Chain{decls: ordered}

	return suite, method, nil
}

// orderGroup produces the outermost-first total order for one role group:
//
//  1. Explicitly ordered declarations ascend by order value; equal orders
//     break by declaration position ascending (stable).
//  2. Declarations without an explicit order take DefaultOrder, placing
//     them outside conventionally ordered rules, and run among themselves
//     in reverse declaration position - the host framework's convention,
//     preserved exactly.
//
// Two explicit declarations with identical order AND position cannot come
// from a stable field scan; if seen, the group is rejected as a
// configuration error rather than silently tie-broken.
func orderGroup(group []Declaration) ([]Declaration, error) {
	if len(group) == 0 {
		return nil, nil
	}

	seen := make(map[[2]int]struct{}, len(group))
	for _, d := range group {
		if !d.HasOrder {
			continue
		}
		key := [2]int{d.Order, d.Position}
		if _, dup := seen[key]; dup {
			return nil, newAmbiguousOrderError(d.Order, d.Position)
		}
		seen[key] = struct{}{}
	}

	ordered := make([]Declaration, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.effectiveOrder() != b.effectiveOrder() {
			return a.effectiveOrder() < b.effectiveOrder()
		}
		// Explicit ties sort before implicit ones at the same order value.
		if a.HasOrder != b.HasOrder {
			return a.HasOrder
		}
		if a.HasOrder {
			return a.Position < b.Position
		}
		return a.Position > b.Position
	})
	return ordered, nil
}
