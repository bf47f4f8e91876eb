package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/mohae/deepcopy"
)

// Store implements ports.TemplateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*snapshot.Document
	mu   sync.RWMutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*snapshot.Document),
	}
}

// Save stores a deep copy of doc, so later changes by the caller are not seen.
func (s *Store) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	copied := deepcopy.Copy(doc).(*snapshot.Document)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load returns a deep copy of the stored template.
func (s *Store) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[name]
	if !ok {
		return nil, ports.ErrTemplateNotFound
	}
	return deepcopy.Copy(doc).(*snapshot.Document), nil
}

// Delete removes the template.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored template names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
