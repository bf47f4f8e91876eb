package snapshot

import (
	"sort"

	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/schema"
)

// ParseOverrides turns loose values (decoded JSON, YAML or flags) into
// overrides for the parameters of template. Each value is coerced to the kind
// of the parameter it replaces.
//
// Names the template does not define are rejected here, although
// CloneWithOverrides would ignore them, so callers learn about typos.
func ParseOverrides(template *blackboard.Registry, values map[string]any) ([]blackboard.Override, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	overrides := make([]blackboard.Override, 0, len(names))
	for _, name := range names {
		raw := values[name]

		p, ok := template.Parameter(name)
		if !ok {
			errs = append(errs, &schema.ValidationError{Key: name, Reason: "not defined in template"})
			continue
		}
		value, err := schema.Coerce(p.Kind(), raw)
		if err != nil {
			errs = append(errs, &schema.ValidationError{Key: name, Reason: err.Error(), Value: raw})
			continue
		}
		repl, err := blackboard.NewParameter(name, p.Kind(), value)
		if err != nil {
			errs = append(errs, &schema.ValidationError{Key: name, Reason: err.Error(), Value: raw})
			continue
		}
		overrides = append(overrides, blackboard.Override{Name: name, Original: p, Replacement: repl})
	}
	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}
	return overrides, nil
}
