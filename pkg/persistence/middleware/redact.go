package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/mohae/deepcopy"
)

type redactionMiddleware struct {
	next     ports.TemplateStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that drops the values of
// parameters whose names match any pattern before they are stored. Redacted
// parameters keep their slot and type and load with the zero value, so
// instances must override them.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.TemplateStore) ports.TemplateStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	// 1. Deep copy so the caller's document keeps its values
	cloned, ok := deepcopy.Copy(doc).(*snapshot.Document)
	if !ok || cloned == nil {
		return m.next.Save(ctx, name, doc)
	}

	// 2. Redact
	for i := range cloned.Parameters {
		if m.matches(cloned.Parameters[i].Name) {
			cloned.Parameters[i].Value = nil
		}
	}

	return m.next.Save(ctx, name, cloned)
}

func (m *redactionMiddleware) matches(name string) bool {
	if name == "" {
		return false
	}
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *redactionMiddleware) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	return m.next.Load(ctx, name)
}

func (m *redactionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
