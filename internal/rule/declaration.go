package rule

import (
	"fmt"
	"reflect"
)

// Role identifies an interceptor role a declared rule value satisfies.
type Role uint8

const (
	// RoleSuite marks a value implementing SuiteRule.
	RoleSuite Role = 1 << iota

	// RoleMethod marks a value implementing MethodRule.
	RoleMethod
)

// RoleSet is a bit set of roles.
type RoleSet uint8

// Has reports whether the set contains the role.
func (s RoleSet) Has(r Role) bool {
	return s&RoleSet(r) != 0
}

// DefaultOrder is the order assigned to declarations without an explicit
// order. It matches the host framework's default, so explicitly ordered
// rules (conventionally non-negative) compose inside implicitly ordered
// ones.
const DefaultOrder = -1

// Declaration is one rule-bearing field as recorded by the registry:
// the rule value, its optional explicit order, and the stable position at
// which the field was discovered.
type Declaration struct {
	// Value is the declared rule instance. It implements SuiteRule,
	// MethodRule, or both, per Roles. Held read-only; never mutated.
	Value any

	// Order is the explicit order value. Meaningful only when HasOrder.
	Order int

	// HasOrder reports whether the declaration carries an explicit order.
	HasOrder bool

	// Position is the field's enumeration index during scanning.
	// Stable and repeatable across runs for the same suite.
	Position int

	// Roles are the interceptor roles the value satisfies.
	Roles RoleSet

	// identity keys the underlying instance. Two declarations referencing
	// the same instance share a key, which is what deduplication across
	// role groups compares.
	identity string
}

// Identity returns the declaration's instance identity key.
func (d Declaration) Identity() string {
	return d.identity
}

// effectiveOrder returns the order used for sorting: the explicit order,
// or DefaultOrder when none was declared.
func (d Declaration) effectiveOrder() int {
	if d.HasOrder {
		return d.Order
	}
	return DefaultOrder
}

// identityFor derives an instance identity key for a declared value.
//
// Pointer-backed values key on the referent address so the same instance
// declared through two fields deduplicates. Other values key on the field
// position, which is already unique per declaration.
func identityFor(value any, position int) string {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Sprintf("ptr:%x", v.Pointer())
	default:
		return fmt.Sprintf("pos:%d", position)
	}
}
