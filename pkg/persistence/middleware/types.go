// Package middleware wraps template stores with encryption and redaction.
package middleware

import "github.com/aretw0/blackboard/pkg/ports"

// Middleware allows wrapping a TemplateStore to add behavior.
type Middleware func(ports.TemplateStore) ports.TemplateStore

// Chain wraps store with mws. The first middleware is the outermost, so it
// sees documents before any other on Save and last on Load.
func Chain(store ports.TemplateStore, mws ...Middleware) ports.TemplateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
