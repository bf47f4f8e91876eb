package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/aretw0/blackboard/internal/presentation/report"
	"github.com/aretw0/blackboard/internal/presentation/tui"
	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/catalog"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"gopkg.in/yaml.v3"
)

// loadRegistry reads a registry document and decodes it against the
// default catalog.
func loadRegistry(path string, opts ...blackboard.Option) (*snapshot.Document, *blackboard.Registry, error) {
	doc, err := snapshot.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := snapshot.Decode(doc, catalog.Default(), opts...)
	if err != nil {
		return doc, nil, err
	}
	return doc, r, nil
}

// parseSet splits repeated name=value flags. Values stay raw text until the
// parameter they target is known, see overrideValues.
func parseSet(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid override %q: expected name=value", pair)
		}
		if _, dup := values[name]; dup {
			return nil, fmt.Errorf("override %q set more than once", name)
		}
		values[name] = raw
	}
	return values, nil
}

// overrideValues reads raw flag values against template. A parameter whose Go
// type is a string takes the text verbatim, so "42" stays "42". Anything else
// is read as a YAML scalar or flow collection, so "9" is an int and "[a, b]" a
// list; coercion to the parameter kind happens later.
func overrideValues(template *blackboard.Registry, raw map[string]string) (map[string]any, error) {
	values := make(map[string]any, len(raw))
	for name, text := range raw {
		if p, ok := template.Parameter(name); ok && p.Type() != nil && p.Type().Kind() == reflect.String {
			values[name] = text
			continue
		}

		var value any
		if err := yaml.Unmarshal([]byte(text), &value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		if value == nil && strings.TrimSpace(text) == "" {
			value = ""
		}
		values[name] = value
	}
	return values, nil
}

// writeDocument prints doc as YAML, JSON or rendered markdown.
func writeDocument(w io.Writer, doc *snapshot.Document, format string, extra string) error {
	switch format {
	case "yaml", "json":
		data, err := snapshot.Marshal(doc, snapshot.Format(format))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "markdown", "md", "":
		render := tui.NewRenderer(w)
		out, err := render(report.Document(doc) + extra)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want yaml, json or markdown)", format)
	}
}
