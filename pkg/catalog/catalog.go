// Package catalog lists the parameter kinds a host can create.
//
// Kinds are registered statically, each with the menu placement an authoring
// tool uses to offer it. The catalog only orders the kinds; drawing menus is
// left to the tool.
package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/schema"
)

// UnsortedGroup is the group level of kinds registered without one.
// Such kinds sort after every grouped kind of the same sub-menu.
const UnsortedGroup = math.MaxInt

// DefaultParameterName is the base name given to parameters created with AddTo.
const DefaultParameterName = "NewParameter"

var (
	// ErrKindExists is returned when registering a type name twice.
	ErrKindExists = errors.New("kind already registered")
	// ErrInvalidKind is returned when registering a kind without a type or menu path.
	ErrInvalidKind = errors.New("invalid kind")
	// ErrKindNotFound is returned when a type name is neither registered nor parseable.
	ErrKindNotFound = errors.New("kind not found")
)

// Kind is a creatable parameter type and its menu placement.
type Kind struct {
	Type schema.Type
	// MenuPath is a slash separated path such as "Basic/Lists/String List".
	MenuPath string
	// GroupLevel orders kinds within their sub-menu; lower levels come first.
	GroupLevel int
}

// Name returns the type name the kind is registered under.
func (k Kind) Name() string { return k.Type.Name() }

// Label returns the last menu path segment.
func (k Kind) Label() string {
	if i := strings.LastIndexByte(k.MenuPath, '/'); i >= 0 {
		return k.MenuPath[i+1:]
	}
	return k.MenuPath
}

// SubMenuPath returns the menu path without its last segment, or "" at top level.
func (k Kind) SubMenuPath() string {
	if i := strings.LastIndexByte(k.MenuPath, '/'); i >= 0 {
		return k.MenuPath[:i]
	}
	return ""
}

// New creates an unowned parameter of this kind holding the zero value.
func (k Kind) New(name string) (*blackboard.Parameter, error) {
	return blackboard.NewParameter(name, k.Type, nil)
}

// Catalog is a set of kinds keyed by type name. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		kinds: make(map[string]Kind),
	}
}

// Register adds a kind. A kind without a group level should use UnsortedGroup.
func (c *Catalog) Register(k Kind) error {
	if k.Type == nil || k.Type.GoType() == nil {
		return fmt.Errorf("%w: missing type", ErrInvalidKind)
	}
	if k.MenuPath == "" || strings.HasSuffix(k.MenuPath, "/") {
		return fmt.Errorf("%w: menu path %q for %s", ErrInvalidKind, k.MenuPath, k.Name())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.kinds[k.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrKindExists, k.Name())
	}
	c.kinds[k.Name()] = k
	return nil
}

// MustRegister is Register that panics on error. Use it for static registration.
func (c *Catalog) MustRegister(kinds ...Kind) *Catalog {
	for _, k := range kinds {
		if err := c.Register(k); err != nil {
			panic(err)
		}
	}
	return c
}

// Lookup returns the kind registered under typeName.
func (c *Catalog) Lookup(typeName string) (Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.kinds[typeName]
	return k, ok
}

// Resolve returns the value kind for typeName, trying registered kinds first
// and the built-in type syntax ("float", "[string]") second.
func (c *Catalog) Resolve(typeName string) (schema.Type, error) {
	if k, ok := c.Lookup(typeName); ok {
		return k.Type, nil
	}
	t, err := schema.ParseType(typeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKindNotFound, typeName)
	}
	return t, nil
}

// Kinds returns every registered kind in menu order.
func (c *Catalog) Kinds() []Kind {
	c.mu.RLock()
	out := make([]Kind, 0, len(c.kinds))
	for _, k := range c.kinds {
		out = append(out, k)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, compareMenu)
	return out
}

// compareMenu orders kinds segment by segment. Sub-menu segments rank as
// unsorted so items of a menu precede its nested menus; the leaf ranks by
// its group level. Both then compare by name.
func compareMenu(a, b Kind) int {
	ka, kb := menuKey(a), menuKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if c := cmp.Compare(ka[i].group, kb[i].group); c != 0 {
			return c
		}
		if c := cmp.Compare(ka[i].name, kb[i].name); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(len(ka), len(kb)); c != 0 {
		return c
	}
	return cmp.Compare(a.Name(), b.Name())
}

type segment struct {
	group int
	name  string
}

func menuKey(k Kind) []segment {
	parts := strings.Split(k.MenuPath, "/")
	key := make([]segment, len(parts))
	for i, p := range parts {
		key[i] = segment{group: UnsortedGroup, name: p}
	}
	key[len(key)-1].group = k.GroupLevel
	return key
}

// AddTo creates a zero-valued parameter of typeName, names it uniquely after
// DefaultParameterName and appends it to r.
func AddTo(r *blackboard.Registry, c *Catalog, typeName string) (*blackboard.Parameter, error) {
	k, ok := c.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("add parameter: %w: %s", ErrKindNotFound, typeName)
	}

	p, err := k.New(r.UniqueName(DefaultParameterName, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create parameter: %w", err)
	}
	if err := r.Add(p); err != nil {
		return nil, fmt.Errorf("failed to add parameter: %w", err)
	}
	return p, nil
}
