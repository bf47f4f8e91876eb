package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/blackboard/internal/logging"
	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/catalog"
	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/aretw0/blackboard/pkg/snapshot"
)

// DefaultLockTTL bounds how long a distributed template lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry is a reference counted per-template mutex.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager publishes and instantiates templates. It is safe for concurrent use.
type Manager struct {
	store   ports.TemplateStore
	catalog *catalog.Catalog

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration

	hooks         Hooks
	registryHooks blackboard.Hooks
	logger        *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithCatalog sets the catalog used to resolve type names. Defaults to catalog.Default().
func WithCatalog(c *catalog.Catalog) Option {
	return func(m *Manager) {
		m.catalog = c
	}
}

// WithLocker enables distributed locking per template name.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the registries it decodes.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers manager level callbacks.
func WithHooks(hooks Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithRegistryHooks installs hooks on every registry the Manager decodes, and
// therefore on every instance cloned from one.
func WithRegistryHooks(hooks blackboard.Hooks) Option {
	return func(m *Manager) {
		m.registryHooks = hooks
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.TemplateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		catalog: catalog.Default(),
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the catalog used to resolve type names.
func (m *Manager) Catalog() *catalog.Catalog { return m.catalog }

// Store returns the underlying template store.
func (m *Manager) Store() ports.TemplateStore { return m.store }

// Document loads the stored document of a template.
func (m *Manager) Document(ctx context.Context, name string) (*snapshot.Document, error) {
	var doc *snapshot.Document
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		doc, err = m.store.Load(ctx, name)
		return err
	})
	return doc, err
}

// Template loads and decodes a template into a new registry.
func (m *Manager) Template(ctx context.Context, name string) (*blackboard.Registry, error) {
	doc, err := m.Document(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.decode(doc)
}

// Publish stores r as the template name, replacing any previous version.
func (m *Manager) Publish(ctx context.Context, name string, r *blackboard.Registry) error {
	return m.save(ctx, name, snapshot.Encode(name, r))
}

// PublishDocument validates doc by decoding it and stores it as name.
func (m *Manager) PublishDocument(ctx context.Context, name string, doc *snapshot.Document) error {
	if doc == nil {
		return fmt.Errorf("publish %s: document is nil", name)
	}
	r, err := m.decode(doc)
	if err != nil {
		return err
	}

	// Store the normalized form so values are already coerced
	normalized := snapshot.Encode(name, r)
	normalized.Description = doc.Description
	return m.save(ctx, name, normalized)
}

func (m *Manager) save(ctx context.Context, name string, doc *snapshot.Document) error {
	if name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	doc.Name = name

	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.store.Save(ctx, name, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to publish template %s: %w", name, err)
	}

	m.logger.Info("template published", "template", name, "parameters", len(doc.Parameters))
	return nil
}

// Instantiate creates an isolated instance of the template name. values
// override template parameters by name and are coerced to each parameter's
// type; a name the template lacks is an error.
func (m *Manager) Instantiate(ctx context.Context, name string, values map[string]any) (*Instance, error) {
	inst, err := m.instantiate(ctx, name, values)

	event := InstantiateEvent{Template: name, Overrides: len(values), Err: err}
	if inst != nil {
		event.InstanceID = inst.Registry.ID()
	}
	if m.hooks.OnInstantiate != nil {
		m.hooks.OnInstantiate(event)
	}

	if err != nil {
		m.logger.Warn("instantiation failed", "template", name, "err", err)
		return nil, err
	}
	m.logger.Debug("template instantiated",
		"template", name,
		"instance", inst.Registry.ID(),
		"overrides", len(values),
	)
	return inst, nil
}

func (m *Manager) instantiate(ctx context.Context, name string, values map[string]any) (*Instance, error) {
	// 1. Load and decode
	template, err := m.Template(ctx, name)
	if err != nil {
		return nil, err
	}

	// 2. Build overrides against the template kinds
	overrides, err := snapshot.ParseOverrides(template, values)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	// 3. Clone
	instance, err := template.CloneWithOverrides(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to clone template %s: %w", name, err)
	}

	return &Instance{Name: name, Template: template, Registry: instance}, nil
}

// Remove deletes a template.
func (m *Manager) Remove(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.store.Delete(ctx, name)
	})
}

// List returns the stored template names.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Exists reports whether a template is stored under name.
func (m *Manager) Exists(ctx context.Context, name string) (bool, error) {
	_, err := m.Document(ctx, name)
	if errors.Is(err, ports.ErrTemplateNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *Manager) decode(doc *snapshot.Document) (*blackboard.Registry, error) {
	return snapshot.Decode(doc, m.catalog,
		blackboard.WithLogger(m.logger),
		blackboard.WithHooks(m.registryHooks),
	)
}

// acquire gets or creates the lock entry for name and takes a reference.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release drops a reference and forgets the entry when unused.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// WithLock runs fn while holding the lock for the template name.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	entry := m.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(name)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, "template:"+name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"template", name,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
