package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Coerce converts loosely decoded data (JSON numbers, YAML lists, duration
// strings) into a value of t's Go type and validates the result.
// A nil raw value yields the zero value of the type. Numbers are never
// truncated: a fractional or out of range number for an integer type fails.
func Coerce(t Type, raw any) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("type is nil")
	}
	if raw == nil {
		return Zero(t), nil
	}
	raw = numbers(raw)

	// Fast path: already the right shape
	if t.Validate(raw) == nil {
		return raw, nil
	}

	out := reflect.New(t.GoType())
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			exactIntegerHook,
		),
		Result:           out.Interface(),
		WeaklyTypedInput: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder for %s: %w", t.Name(), err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("cannot convert %T to %s: %w", raw, t.Name(), err)
	}

	value := out.Elem().Interface()
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

// numbers replaces json.Number values, at the top level and inside decoded
// lists and objects, with an int when the literal is integral and fits,
// otherwise with a float64.
func numbers(raw any) any {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = numbers(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = numbers(e)
		}
		return out
	default:
		return raw
	}
}

// exactIntegerHook rejects float to integer conversions that would lose
// information. mapstructure truncates them even with weak typing disabled.
func exactIntegerHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
		if f < math.MinInt64 || f >= math.MaxInt64 || reflect.Zero(to).OverflowInt(int64(f)) {
			return nil, fmt.Errorf("%v overflows %s", f, to)
		}
		return int64(f), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		if f < 0 || f >= math.MaxUint64 || reflect.Zero(to).OverflowUint(uint64(f)) {
			return nil, fmt.Errorf("%v overflows %s", f, to)
		}
		return uint64(f), nil
	default:
		return data, nil
	}
}
