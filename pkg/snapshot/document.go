package snapshot

import (
	"fmt"
	"reflect"
	"time"

	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/catalog"
	"github.com/aretw0/blackboard/pkg/schema"
)

// Document is the serializable form of a registry.
type Document struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []Entry `json:"parameters" yaml:"parameters"`
}

// Entry is one registry slot.
type Entry struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Empty bool   `json:"empty,omitempty" yaml:"empty,omitempty"`
}

// Encode captures the slots of r under the given document name.
func Encode(name string, r *blackboard.Registry) *Document {
	doc := &Document{
		Name:       name,
		Parameters: make([]Entry, 0, r.Len()),
	}
	for _, p := range r.Parameters() {
		if p == nil {
			doc.Parameters = append(doc.Parameters, Entry{Empty: true})
			continue
		}
		doc.Parameters = append(doc.Parameters, Entry{
			Name:  p.Name(),
			Type:  p.Kind().Name(),
			Value: portable(p.Value()),
		})
	}
	return doc
}

// Decode builds a registry from doc. Type names are resolved through cat, or
// through the built-in type syntax when cat is nil. Every failing entry is
// reported in a single *schema.AggregateError.
func Decode(doc *Document, cat *catalog.Catalog, opts ...blackboard.Option) (*blackboard.Registry, error) {
	if doc == nil {
		return nil, fmt.Errorf("decode: document is nil")
	}

	resolve := schema.ParseType
	if cat != nil {
		resolve = cat.Resolve
	}

	var errs []error
	seen := make(map[string]struct{}, len(doc.Parameters))
	params := make([]*blackboard.Parameter, 0, len(doc.Parameters))
	for i, e := range doc.Parameters {
		if e.Empty {
			params = append(params, nil)
			continue
		}

		key := e.Name
		if key == "" {
			key = fmt.Sprintf("#%d", i)
		}
		if _, dup := seen[e.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %w",
				&schema.ValidationError{Key: key, Reason: "name repeats an earlier entry"},
				blackboard.ErrDuplicateName))
			continue
		}
		seen[e.Name] = struct{}{}

		kind, err := resolve(e.Type)
		if err != nil {
			errs = append(errs, &schema.ValidationError{Key: key, Reason: err.Error()})
			continue
		}
		value, err := schema.Coerce(kind, e.Value)
		if err != nil {
			errs = append(errs, &schema.ValidationError{Key: key, Reason: err.Error(), Value: e.Value})
			continue
		}
		p, err := blackboard.NewParameter(e.Name, kind, value)
		if err != nil {
			errs = append(errs, &schema.ValidationError{Key: key, Reason: err.Error(), Value: e.Value})
			continue
		}
		params = append(params, p)
	}
	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}

	r, err := blackboard.NewRegistry(params, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", doc.Name, err)
	}
	return r, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// portable rewrites durations, alone or in slices, as strings.
func portable(v any) any {
	switch tv := v.(type) {
	case time.Duration:
		return tv.String()
	case nil:
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem() != durationType {
		return v
	}
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = time.Duration(rv.Index(i).Int()).String()
	}
	return out
}
