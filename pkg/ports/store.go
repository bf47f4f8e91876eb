package ports

import (
	"context"
	"errors"

	"github.com/aretw0/blackboard/pkg/snapshot"
)

// ErrTemplateNotFound is returned by Load when no template has the given name.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateStore persists registry templates.
// Implementations must return documents the caller may modify freely.
type TemplateStore interface {
	// Save stores doc under name, replacing any previous version.
	Save(ctx context.Context, name string, doc *snapshot.Document) error

	// Load retrieves the template stored under name.
	// Returns ErrTemplateNotFound if it does not exist.
	Load(ctx context.Context, name string) (*snapshot.Document, error)

	// Delete removes the template. Deleting a missing template is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored templates.
	List(ctx context.Context) ([]string, error)
}
