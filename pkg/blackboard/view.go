package blackboard

import "fmt"

// ReadOnly exposes only the value getter of a parameter, projected to T.
// It holds a non-owning reference; the parameter's registry manages its lifetime.
type ReadOnly[T any] struct {
	p *Parameter
}

// NewReadOnly binds a read view to p. The parameter type must be assignable to T.
func NewReadOnly[T any](p *Parameter) (ReadOnly[T], error) {
	if p == nil {
		return ReadOnly[T]{}, ErrNilParameter
	}
	if err := p.typed(); err != nil {
		return ReadOnly[T]{}, fmt.Errorf("read view: %w", err)
	}
	if want := typeOf[T](); !p.Type().AssignableTo(want) {
		return ReadOnly[T]{}, fmt.Errorf("read view: %w",
			&TypeMismatchError{Parameter: p.name, Want: want, Have: p.Type(), Op: "get"})
	}
	return ReadOnly[T]{p: p}, nil
}

// Value returns the current parameter value.
func (v ReadOnly[T]) Value() T {
	out, _ := Get[T](v.p)
	return out
}

// WriteOnly exposes only the value setter of a parameter, accepting T.
type WriteOnly[T any] struct {
	p *Parameter
}

// NewWriteOnly binds a write view to p. T must be assignable to the parameter type.
func NewWriteOnly[T any](p *Parameter) (WriteOnly[T], error) {
	if p == nil {
		return WriteOnly[T]{}, ErrNilParameter
	}
	if err := p.typed(); err != nil {
		return WriteOnly[T]{}, fmt.Errorf("write view: %w", err)
	}
	if have := typeOf[T](); !have.AssignableTo(p.Type()) {
		return WriteOnly[T]{}, fmt.Errorf("write view: %w",
			&TypeMismatchError{Parameter: p.name, Want: have, Have: p.Type(), Op: "set"})
	}
	return WriteOnly[T]{p: p}, nil
}

// Set replaces the parameter value. The type was checked when the view was bound,
// so only kind-specific validation can reject v.
func (v WriteOnly[T]) Set(value T) error {
	return Set[T](v.p, value)
}
