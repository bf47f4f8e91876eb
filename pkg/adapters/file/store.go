package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/aretw0/blackboard/pkg/snapshot"
)

// ErrInvalidName is returned for template names that cannot be used as file names.
var ErrInvalidName = errors.New("invalid template name")

// Store implements ports.TemplateStore on the local filesystem.
// Each template is a <name>.json file in BasePath.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath, ".blackboard/templates" if empty.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".blackboard", "templates")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.BasePath, name+".json"), nil
}

// Save writes the template atomically: a temp file in the same directory is
// written, synced and renamed over the destination.
func (s *Store) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure template directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	// 1. Temp file on the same filesystem; the .tmp suffix keeps it out of List
	tmpFile, err := os.CreateTemp(s.BasePath, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	// 2. Write and fsync
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// 3. Close before rename (required on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// 4. Windows cannot rename over an existing file
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to replace template file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the template file.
func (s *Store) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var doc snapshot.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template %s: %w", name, err)
	}
	return &doc, nil
}

// Delete removes the template file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete template file: %w", err)
	}
	return nil
}

// List returns the names of the .json files in BasePath, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
