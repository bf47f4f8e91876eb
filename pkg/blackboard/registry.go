package blackboard

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/blackboard/internal/logging"
	"github.com/aretw0/blackboard/pkg/schema"
	"github.com/google/uuid"
)

// Registry is an ordered, name-indexed collection of parameters (a blackboard).
// Slot order is significant and survives reorders. A nil slot is an empty
// (tombstoned) position kept for positional stability.
//
// A Registry is not safe for concurrent use. Clone it per execution context.
type Registry struct {
	id    string
	slots []*Parameter

	// generation is bumped by every structural mutation.
	generation uint64
	index      *nameIndex

	hooks  Hooks
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger used for warnings and clone diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithHooks registers observability callbacks. Clones inherit them.
func WithHooks(hooks Hooks) Option {
	return func(r *Registry) {
		r.hooks = hooks
	}
}

// WithID overrides the generated registry identifier.
func WithID(id string) Option {
	return func(r *Registry) {
		r.id = id
	}
}

// NewRegistry creates a registry owning params in the given order.
// Nil entries become empty slots. Fails if a name repeats or a parameter
// already belongs to another registry; on failure no parameter is adopted.
func NewRegistry(params []*Parameter, opts ...Option) (*Registry, error) {
	r := &Registry{
		id:     uuid.NewString(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	// 1. Validate before adopting anything
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		if p == nil {
			continue
		}
		if err := p.typed(); err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		if p.owner != nil {
			return nil, fmt.Errorf("slot %d %q: %w", i, p.name, ErrAlreadyOwned)
		}
		if _, dup := seen[p.name]; dup {
			return nil, fmt.Errorf("slot %d %q: %w", i, p.name, ErrDuplicateName)
		}
		seen[p.name] = struct{}{}
	}

	// 2. Adopt
	r.slots = slices.Clone(params)
	for _, p := range r.slots {
		if p != nil {
			p.owner = r
		}
	}

	return r, nil
}

// ID returns the registry identifier. Each clone receives a fresh one.
func (r *Registry) ID() string { return r.id }

// Parameters returns the ordered slots, including empty ones as nil.
// The slice is the registry's own storage: do not modify it, and do not keep
// it across structural mutations.
func (r *Registry) Parameters() []*Parameter { return r.slots }

// Len returns the number of slots, empty ones included.
func (r *Registry) Len() int { return len(r.slots) }

// Parameter returns the parameter with exactly the given name (case-sensitive).
func (r *Registry) Parameter(name string) (*Parameter, bool) {
	p, ok := r.currentIndex().byName[name]
	return p, ok
}

// Typed returns the named parameter only if its Go type is exactly T.
func Typed[T any](r *Registry, name string) (*Parameter, bool) {
	p, ok := r.Parameter(name)
	if !ok || p.Type() != typeOf[T]() {
		return nil, false
	}
	return p, true
}

// Add appends p. The registry does not rename: a taken name fails with
// ErrDuplicateName, so callers resolve collisions first (see UniqueName).
func (r *Registry) Add(p *Parameter) error {
	if p == nil {
		return ErrNilParameter
	}
	if err := p.typed(); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	if p.owner != nil {
		return fmt.Errorf("add %q: %w", p.name, ErrAlreadyOwned)
	}
	if _, exists := r.Parameter(p.name); exists {
		return fmt.Errorf("add %q: %w", p.name, ErrDuplicateName)
	}

	r.slots = append(r.slots, p)
	p.owner = r

	// The lookup above left the index fresh, so extend it in place.
	r.generation++
	r.index.byName[p.name] = p
	r.index.generation = r.generation
	return nil
}

// Remove drops the first parameter named name and reports whether one was removed.
func (r *Registry) Remove(name string) bool {
	for i, p := range r.slots {
		if p == nil || p.name != name {
			continue
		}
		r.slots = slices.Delete(r.slots, i, i+1)
		p.owner = nil
		r.generation++
		return true
	}
	return false
}

// Move repositions the slot at from so that it ends up at to, preserving the
// relative order of all other slots. Invalid indices change nothing.
func (r *Registry) Move(from, to int) error {
	n := len(r.slots)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d in %d slots: %w", from, to, n, ErrIndexOutOfRange)
	}
	if from == to {
		return nil
	}

	p := r.slots[from]
	r.slots = slices.Delete(r.slots, from, from+1)
	r.slots = slices.Insert(r.slots, to, p)
	r.generation++
	return nil
}

// MoveNamed moves the named parameter to a drop position, expressed as the
// index of the slot it should land before (len moves it to the end).
func (r *Registry) MoveNamed(name string, dropAt int) error {
	if dropAt < 0 || dropAt > len(r.slots) {
		return fmt.Errorf("drop %q at %d in %d slots: %w", name, dropAt, len(r.slots), ErrIndexOutOfRange)
	}

	src := slices.IndexFunc(r.slots, func(p *Parameter) bool {
		return p != nil && p.name == name
	})
	if src == -1 {
		return fmt.Errorf("move %q: %w", name, ErrParameterNotFound)
	}

	// Removing the source shifts every later position down by one.
	if src < dropAt {
		dropAt--
	}
	return r.Move(src, dropAt)
}

// Rename changes a parameter name and returns the name actually assigned.
// An empty newName is ignored. A taken name is made unique with UniqueName.
func (r *Registry) Rename(oldName, newName string) (string, error) {
	p, ok := r.Parameter(oldName)
	if !ok {
		return "", fmt.Errorf("rename %q: %w", oldName, ErrParameterNotFound)
	}
	if newName == "" || newName == oldName {
		return oldName, nil
	}

	name := r.UniqueName(newName, p)
	if name != p.name {
		p.name = name
		r.generation++
	}
	return name, nil
}

// UniqueName returns base, or "base (n)" with the smallest n >= 1, such that no
// parameter other than except uses it.
func (r *Registry) UniqueName(base string, except *Parameter) string {
	name := base
	for i := 1; r.taken(name, except); i++ {
		name = fmt.Sprintf("%s (%d)", base, i)
	}
	return name
}

func (r *Registry) taken(name string, except *Parameter) bool {
	for _, p := range r.slots {
		if p != nil && p != except && p.name == name {
			return true
		}
	}
	return false
}

// Schema returns the name-to-kind mapping of the live parameters.
func (r *Registry) Schema() schema.Schema {
	s := make(schema.Schema, len(r.slots))
	for _, p := range r.slots {
		if p != nil {
			s[p.name] = p.kind
		}
	}
	return s
}

// Clone is CloneWithOverrides without overrides.
func (r *Registry) Clone() (*Registry, error) {
	return r.CloneWithOverrides(nil)
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return logging.NewNop()
	}
	return r.logger
}
