package blackboard

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeMismatch is returned when a typed get or set does not match a parameter's type.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrNoType is returned when a parameter is created without a value kind.
var ErrNoType = errors.New("parameter type is required")

// ErrNilParameter is returned when a nil parameter is passed where a live one is required.
var ErrNilParameter = errors.New("parameter is nil")

// ErrDuplicateName is returned when adding a parameter whose name is already taken.
var ErrDuplicateName = errors.New("duplicate parameter name")

// ErrAlreadyOwned is returned when adding a parameter that belongs to another registry.
var ErrAlreadyOwned = errors.New("parameter already belongs to a registry")

// ErrIndexOutOfRange is returned by move operations given an invalid position.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrInvalidState is returned when a registry is nil or its index disagrees with its slots.
var ErrInvalidState = errors.New("invalid registry state")

// ErrParameterNotFound is returned by rename when the source name does not exist.
// Lookups report misses with a boolean instead.
var ErrParameterNotFound = errors.New("parameter not found")

// TypeMismatchError describes a failed typed access.
type TypeMismatchError struct {
	Parameter string       // Name of the parameter accessed
	Want      reflect.Type // Type requested or supplied by the caller
	Have      reflect.Type // Concrete type of the parameter
	Op        string       // "get" or "set"
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s parameter %q: %s: parameter holds %s, caller uses %s",
		e.Op, e.Parameter, ErrTypeMismatch, e.Have, e.Want)
}

// Is reports ErrTypeMismatch as the sentinel for every TypeMismatchError.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
