package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/blackboard/pkg/catalog"
)

// MenuOverlay highlights kinds on the generated menu graph.
type MenuOverlay struct {
	// Used lists type names present in a registry.
	Used []string
}

// GenerateMermaid produces a Mermaid flowchart of the create menu. Sub-menus
// become subroutine nodes and kinds become leaves labelled with their type.
// Kinds are expected in menu order, as returned by Catalog.Kinds.
func GenerateMermaid(kinds []catalog.Kind, overlay *MenuOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    root((\"Create\"))\n")

	seen := make(map[string]bool)
	for _, k := range kinds {
		parent := "root"
		segments := strings.Split(k.SubMenuPath(), "/")
		if k.SubMenuPath() == "" {
			segments = nil
		}

		// Sub-menus are shared between kinds
		for i, seg := range segments {
			id := sanitizeMermaidID("menu/" + strings.Join(segments[:i+1], "/"))
			if !seen[id] {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, escapeLabel(seg)))
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, id))
			}
			parent = id
		}

		leaf := sanitizeMermaidID("kind/" + k.Name())
		sb.WriteString(fmt.Sprintf("    %s[\"%s <br/> %s\"]\n", leaf, escapeLabel(k.Label()), escapeLabel(k.Name())))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, leaf))
	}

	if overlay != nil && len(overlay.Used) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef used fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		used := make(map[string]bool)
		for _, name := range overlay.Used {
			id := sanitizeMermaidID("kind/" + name)
			if !used[id] && name != "" {
				used[id] = true
				sb.WriteString(fmt.Sprintf("    class %s used;\n", id))
			}
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(
		".", "_", "-", "_", "/", "_", "\\", "_",
		" ", "_", "[", "L_", "]", "_R", "(", "_", ")", "_",
	)
	return r.Replace(id)
}
