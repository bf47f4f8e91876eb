package library

import (
	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/snapshot"
)

// Instance is a registry cloned from a template.
type Instance struct {
	Name     string
	Template *blackboard.Registry
	Registry *blackboard.Registry
}

// Diff reports how the instance differs from its template.
func (i *Instance) Diff() *snapshot.Delta {
	return snapshot.Diff(i.Template, i.Registry)
}

// Document encodes the instance under the template name.
func (i *Instance) Document() *snapshot.Document {
	return snapshot.Encode(i.Name, i.Registry)
}

// InstantiateEvent describes one Instantiate call.
type InstantiateEvent struct {
	Template   string
	InstanceID string
	Overrides  int
	Err        error
}

// Hooks defines callbacks for manager observability.
type Hooks struct {
	OnInstantiate func(InstantiateEvent)
}
