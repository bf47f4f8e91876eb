package snapshot

import (
	"reflect"

	"github.com/aretw0/blackboard/pkg/blackboard"
)

// Delta lists how an instance differs from the template it was cloned from.
type Delta struct {
	// Changed holds the new value of parameters present in both.
	Changed map[string]any `json:"changed,omitempty"`
	// Added holds parameters only the instance has.
	Added map[string]any `json:"added,omitempty"`
	// Removed names parameters only the template has.
	Removed []string `json:"removed,omitempty"`
}

// IsEmpty reports whether the registries hold the same parameters and values.
func (d *Delta) IsEmpty() bool {
	return len(d.Changed) == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff compares instance against template, by name. Slot order is ignored.
func Diff(template, instance *blackboard.Registry) *Delta {
	delta := &Delta{}

	// 1. Changed or added
	for _, p := range instance.Parameters() {
		if p == nil {
			continue
		}
		old, ok := template.Parameter(p.Name())
		if !ok {
			if delta.Added == nil {
				delta.Added = make(map[string]any)
			}
			delta.Added[p.Name()] = portable(p.Value())
			continue
		}
		if old.Type() != p.Type() || !reflect.DeepEqual(old.Value(), p.Value()) {
			if delta.Changed == nil {
				delta.Changed = make(map[string]any)
			}
			delta.Changed[p.Name()] = portable(p.Value())
		}
	}

	// 2. Removed, in template order
	for _, p := range template.Parameters() {
		if p == nil {
			continue
		}
		if _, ok := instance.Parameter(p.Name()); !ok {
			delta.Removed = append(delta.Removed, p.Name())
		}
	}

	return delta
}
