// Package graph renders questionnaire graphs for the map view.
package graph

import (
	"fmt"
	"strings"

	"github.com/opencourtlab/guideway/pkg/domain"
	flow "github.com/opencourtlab/guideway/pkg/graph"
)

// Overlay contains dynamic session data to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart from a validated graph.
// Semantic shapes per node kind:
//   - start: ((circle))
//   - decision: {diamond}
//   - end: ([stadium])
//   - process: [rectangle]
//
// Visited and current nodes are styled when an overlay is provided, which is
// how the map view and dual-pane view share one rendering path.
func GenerateMermaid(g *flow.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindStart:
			opener, closer = "((", "))"
		case domain.KindDecision:
			opener, closer = "{", "}"
		case domain.KindEnd:
			opener, closer = "([", "])"
		}

		label := node.ID
		if line := firstLine(node.Text); line != "" {
			label = line
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))

		for _, choice := range g.Choices(node.ID) {
			safeTo := sanitizeMermaidID(choice.Edge.To)

			arrow := "-->"
			if choice.Synthetic {
				// Option without a backing edge in the document.
				arrow = "-.->"
			}
			if choice.Label != domain.FallbackLabel {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(choice.Label))
				if choice.Synthetic {
					arrow = fmt.Sprintf("-. \"%s\" .->", escapeLabel(choice.Label))
				}
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n")
		sb.WriteString("    classDef visited fill:#d1fae5,stroke:#059669\n")
		sb.WriteString("    classDef current fill:#fde68a,stroke:#d97706,stroke-width:3px\n")
		for _, id := range overlay.VisitedNodes {
			if id == overlay.CurrentNode {
				continue
			}
			sb.WriteString(fmt.Sprintf("    class %s visited\n", sanitizeMermaidID(id)))
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

// sanitizeMermaidID makes a node id safe for Mermaid syntax.
func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		" ", "_",
		"-", "_",
		".", "_",
	)
	return replacer.Replace(id)
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
