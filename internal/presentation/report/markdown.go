// Package report renders registries and instance deltas as markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/blackboard/pkg/snapshot"
)

// Document renders doc as a heading and a slot table.
func Document(doc *snapshot.Document) string {
	var sb strings.Builder

	title := doc.Name
	if title == "" {
		title = "Registry"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if doc.Description != "" {
		sb.WriteString(doc.Description + "\n\n")
	}

	if len(doc.Parameters) == 0 {
		sb.WriteString("_No parameters._\n")
		return sb.String()
	}

	sb.WriteString("| # | Name | Type | Value |\n")
	sb.WriteString("|---|------|------|-------|\n")
	for i, e := range doc.Parameters {
		if e.Empty {
			sb.WriteString(fmt.Sprintf("| %d | _empty_ | | |\n", i))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | `%s` | %s |\n", i, cell(e.Name), e.Type, cell(formatValue(e.Value))))
	}
	return sb.String()
}

// Delta renders the difference between an instance and its template.
func Delta(d *snapshot.Delta) string {
	if d == nil || d.IsEmpty() {
		return "_Identical to template._\n"
	}

	var sb strings.Builder
	sb.WriteString("## Overrides\n\n")
	writeValues(&sb, "Changed", d.Changed)
	writeValues(&sb, "Added", d.Added)
	if len(d.Removed) > 0 {
		sb.WriteString("**Removed**\n\n")
		for _, name := range d.Removed {
			sb.WriteString(fmt.Sprintf("- %s\n", name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeValues(sb *strings.Builder, title string, values map[string]any) {
	if len(values) == 0 {
		return
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString(fmt.Sprintf("**%s**\n\n", title))
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", name, formatValue(values[name])))
	}
	sb.WriteString("\n")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
