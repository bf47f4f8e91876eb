package blackboard

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/aretw0/blackboard/pkg/schema"
	"github.com/mohae/deepcopy"
)

// Parameter is a named value cell whose Go type is fixed at creation.
// Only the held value changes over the parameter's lifetime.
type Parameter struct {
	name  string
	kind  schema.Type
	value any

	// owner is the registry holding this parameter, nil while unowned.
	owner *Registry
}

// NewParameter creates an unowned parameter of the given kind.
// A nil value yields the kind's zero value. Fails with ErrNoType when kind is nil
// and ErrTypeMismatch when value does not conform to kind.
func NewParameter(name string, kind schema.Type, value any) (*Parameter, error) {
	if kind == nil || kind.GoType() == nil {
		return nil, fmt.Errorf("create parameter %q: %w", name, ErrNoType)
	}

	if value == nil {
		value = schema.Zero(kind)
	} else if err := kind.Validate(value); err != nil {
		return nil, fmt.Errorf("create parameter %q: %w: %v", name, ErrTypeMismatch, err)
	}

	return &Parameter{name: name, kind: kind, value: value}, nil
}

// New creates a parameter whose type is inferred from v.
func New[T any](name string, v T) *Parameter {
	p := &Parameter{name: name, kind: schema.For[T]()}
	p.store(any(v))
	return p
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Kind returns the value kind the parameter was created with.
func (p *Parameter) Kind() schema.Type { return p.kind }

// Type returns the concrete Go type of the parameter, nil for a parameter
// that was not built with a kind.
func (p *Parameter) Type() reflect.Type {
	if p.kind == nil {
		return nil
	}
	return p.kind.GoType()
}

// Value returns the held value untyped.
func (p *Parameter) Value() any { return p.value }

// SetValue replaces the value from an untyped caller.
// A nil v resets the parameter to its zero value. The dynamic type of v must be
// assignable to the parameter type and pass kind validation; both failures
// match ErrTypeMismatch.
func (p *Parameter) SetValue(v any) error {
	if err := p.typed(); err != nil {
		return err
	}
	if v == nil {
		p.store(nil)
		return nil
	}
	if have := reflect.TypeOf(v); !have.AssignableTo(p.Type()) {
		return &TypeMismatchError{Parameter: p.name, Want: have, Have: p.Type(), Op: "set"}
	}
	if err := p.kind.Validate(v); err != nil {
		return fmt.Errorf("set parameter %q: %w: %v", p.name, ErrTypeMismatch, err)
	}
	p.store(v)
	return nil
}

// Clone returns an unowned copy with the same name and a deep copy of the value.
// Values implementing deepcopy.Interface control their own copy; otherwise only
// exported state survives the copy.
func (p *Parameter) Clone() *Parameter {
	return &Parameter{
		name:  p.name,
		kind:  p.kind,
		value: copyValue(p.value),
	}
}

// String implements fmt.Stringer.
func (p *Parameter) String() string {
	return fmt.Sprintf("%s (%s) = %v", p.name, p.kindName(), p.value)
}

// LogValue implements slog.LogValuer.
func (p *Parameter) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", p.name),
		slog.String("type", p.kindName()),
	)
}

func (p *Parameter) kindName() string {
	if p.kind == nil {
		return "untyped"
	}
	return p.kind.Name()
}

// typed fails with ErrNoType for a parameter that was not built with a kind,
// such as a zero Parameter.
func (p *Parameter) typed() error {
	if p.kind == nil || p.kind.GoType() == nil {
		return fmt.Errorf("parameter %q: %w", p.name, ErrNoType)
	}
	return nil
}

func (p *Parameter) store(v any) {
	if v == nil {
		p.value = schema.Zero(p.kind)
		return
	}
	p.value = v
}

func copyValue(v any) any {
	if v == nil {
		return nil
	}
	return deepcopy.Copy(v)
}

// Get returns the parameter value as T.
// It succeeds iff the parameter type is assignable to T. On failure it returns
// the zero value of T alongside a *TypeMismatchError; it never returns an
// uninitialised value.
func Get[T any](p *Parameter) (T, error) {
	var zero T
	if p == nil {
		return zero, ErrNilParameter
	}
	if err := p.typed(); err != nil {
		return zero, err
	}

	want := typeOf[T]()
	if !p.Type().AssignableTo(want) {
		return zero, &TypeMismatchError{Parameter: p.name, Want: want, Have: p.Type(), Op: "get"}
	}

	v, ok := p.value.(T)
	if !ok {
		// nil held by an interface-typed parameter
		return zero, nil
	}
	return v, nil
}

// Set replaces the parameter value with v.
// It succeeds iff T is assignable to the parameter type; on failure the value is unchanged.
func Set[T any](p *Parameter, v T) error {
	if p == nil {
		return ErrNilParameter
	}
	if err := p.typed(); err != nil {
		return err
	}

	have := typeOf[T]()
	if !have.AssignableTo(p.Type()) {
		return &TypeMismatchError{Parameter: p.name, Want: have, Have: p.Type(), Op: "set"}
	}

	boxed := any(v)
	if boxed != nil {
		if err := p.kind.Validate(boxed); err != nil {
			return fmt.Errorf("set parameter %q: %w: %v", p.name, ErrTypeMismatch, err)
		}
	}
	p.store(boxed)
	return nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
