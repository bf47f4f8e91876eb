package schema

import (
	"fmt"
	"reflect"
	"time"
)

// Type defines the contract for a parameter value kind.
// Implementations determine how values are validated and which concrete
// Go type a parameter of this kind holds.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
	// GoType returns the concrete Go type stored by parameters of this kind.
	GoType() reflect.Type
}

// typeOf returns the reflect.Type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) GoType() reflect.Type { return typeOf[string]() }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) GoType() reflect.Type { return typeOf[int]() }

func (t *IntType) Validate(value any) error {
	if _, ok := value.(int); !ok {
		return fmt.Errorf("expected int, got %T", value)
	}
	return nil
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) GoType() reflect.Type { return typeOf[float64]() }

func (t *FloatType) Validate(value any) error {
	if _, ok := value.(float64); !ok {
		return fmt.Errorf("expected float, got %T", value)
	}
	return nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) GoType() reflect.Type { return typeOf[bool]() }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// DurationType validates time.Duration values.
type DurationType struct{}

func (t *DurationType) Name() string { return "duration" }

func (t *DurationType) GoType() reflect.Type { return typeOf[time.Duration]() }

func (t *DurationType) Validate(value any) error {
	if _, ok := value.(time.Duration); !ok {
		return fmt.Errorf("expected duration, got %T", value)
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) GoType() reflect.Type {
	return reflect.SliceOf(t.elemType.GoType())
}

// Elem returns the element type.
func (t *SliceType) Elem() Type { return t.elemType }

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Type() != t.GoType() {
		return fmt.Errorf("expected %s, got %T", t.GoType(), value)
	}

	// Validate each element
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// GoTypeOf wraps an arbitrary Go type. Values must be assignable to it.
type GoTypeOf struct {
	name string
	typ  reflect.Type
}

func (t *GoTypeOf) Name() string { return t.name }

func (t *GoTypeOf) GoType() reflect.Type { return t.typ }

func (t *GoTypeOf) Validate(value any) error {
	if value == nil {
		// nil is the zero value of interface, pointer, map and slice kinds
		switch t.typ.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return nil
		}
		return fmt.Errorf("expected %s, got nil", t.typ)
	}
	if !reflect.TypeOf(value).AssignableTo(t.typ) {
		return fmt.Errorf("expected %s, got %T", t.typ, value)
	}
	return nil
}

// CustomType applies a user-defined validation function on top of a Go type.
type CustomType struct {
	GoTypeOf
	validate func(any) error
}

func (t *CustomType) Validate(value any) error {
	if err := t.GoTypeOf.Validate(value); err != nil {
		return err
	}
	if t.validate == nil {
		return nil
	}
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Duration creates a time.Duration type validator.
func Duration() Type { return &DurationType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Of creates a type for an arbitrary Go type T.
// If name is empty, the Go type string is used (e.g. "*bytes.Buffer").
func Of[T any](name string) Type {
	typ := typeOf[T]()
	if name == "" {
		name = typ.String()
	}
	return &GoTypeOf{name: name, typ: typ}
}

// Custom creates a named type for goType with an extra validation function.
func Custom(name string, goType reflect.Type, validate func(any) error) Type {
	return &CustomType{
		GoTypeOf: GoTypeOf{name: name, typ: goType},
		validate: validate,
	}
}

// For returns the built-in type whose Go type is exactly T, or Of[T] otherwise.
func For[T any]() Type {
	if t := builtin(typeOf[T]()); t != nil {
		return t
	}
	return Of[T]("")
}

// builtin maps a Go type back to its built-in Type, or nil.
func builtin(typ reflect.Type) Type {
	switch typ {
	case typeOf[string]():
		return String()
	case typeOf[int]():
		return Int()
	case typeOf[float64]():
		return Float()
	case typeOf[bool]():
		return Bool()
	case typeOf[time.Duration]():
		return Duration()
	}
	if typ.Kind() == reflect.Slice {
		if elem := builtin(typ.Elem()); elem != nil {
			return Slice(elem)
		}
	}
	return nil
}

// Zero returns the zero value of the type's Go type.
func Zero(t Type) any {
	return reflect.Zero(t.GoType()).Interface()
}

// ParseType converts a string type name to a Type.
// Supports basic types: "string", "int", "float", "bool", "duration", "[string]", "[int]", etc.
func ParseType(typeStr string) (Type, error) {
	// Handle slice types: [string], [int], etc.
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemTypeStr := typeStr[1 : len(typeStr)-1]
		elemType, err := ParseType(elemTypeStr)
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	// Handle built-in types
	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "duration":
		return Duration(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"speed": "float", "label": "string"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
