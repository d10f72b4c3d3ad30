package rule

import (
	"errors"
	"fmt"
)

// ConfigError represents malformed or contradictory rule metadata detected
// while composing chains.
//
// Configuration errors are fatal to the affected test's setup and are
// reported as setup failures, never as test failures: no test code runs
// behind a chain that failed to compose.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending declaration site, when known.
	Field string

	// Details contains additional context.
	Details map[string]string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeAmbiguousOrder indicates two declarations share an identical
	// explicit order and declaration position, leaving no total order.
	ErrCodeAmbiguousOrder ConfigErrorCode = "AMBIGUOUS_ORDER"

	// ErrCodeInvalidOrderTag indicates a declaration site carries order
	// metadata that cannot be parsed.
	ErrCodeInvalidOrderTag ConfigErrorCode = "INVALID_ORDER_TAG"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsAmbiguousOrder reports whether err is an ambiguous-order error.
// Uses errors.As to handle wrapped errors.
func IsAmbiguousOrder(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeAmbiguousOrder
	}
	return false
}

// newAmbiguousOrderError builds the configuration error for an
// unresolvable duplicate (order, position) pair.
func newAmbiguousOrderError(order, position int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeAmbiguousOrder,
		Message: "two rule declarations share the same explicit order and position",
		Details: map[string]string{
			"order":    fmt.Sprintf("%d", order),
			"position": fmt.Sprintf("%d", position),
		},
	}
}

// NewInvalidOrderTagError builds the configuration error for unparseable
// order metadata on a declaration site.
func NewInvalidOrderTagError(field, tag string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidOrderTag,
		Message: fmt.Sprintf("cannot parse rule order tag %q: %v", tag, cause),
		Field:   field,
	}
}
