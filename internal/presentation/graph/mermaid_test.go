package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourtlab/guideway/pkg/domain"
	flow "github.com/opencourtlab/guideway/pkg/graph"
)

func buildTestGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g, err := flow.Build(flow.Document{
		Start: "welcome",
		Nodes: map[string]domain.Node{
			"welcome": {ID: "welcome", Kind: domain.KindStart, Text: "Welcome"},
			"choose": {ID: "choose", Kind: domain.KindDecision, Text: `Say "yes" or "no"`,
				Options: []domain.Option{
					{Label: "Yes", TargetID: "done"},
					{Label: "No", TargetID: "help"},
				}},
			"done": {ID: "done", Kind: domain.KindEnd, Text: "All done"},
			"help": {ID: "help", Kind: domain.KindEnd, Text: "See the clerk"},
		},
		Edges: []domain.Edge{
			{From: "welcome", To: "choose"},
			{From: "choose", To: "done", When: "Yes"},
		},
	})
	require.NoError(t, err)
	return g
}

func TestGenerateMermaidShapes(t *testing.T) {
	out := GenerateMermaid(buildTestGraph(t), nil)

	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `welcome(("Welcome"))`)
	assert.Contains(t, out, `done(["All done"])`)
	// Quotes in text are softened for Mermaid.
	assert.Contains(t, out, `choose{"Say 'yes' or 'no'"}`)
}

func TestGenerateMermaidEdges(t *testing.T) {
	out := GenerateMermaid(buildTestGraph(t), nil)

	// Unlabeled continue from the start node.
	assert.Contains(t, out, "welcome --> choose")
	// Labeled edge backed by the document.
	assert.Contains(t, out, `choose -- "Yes" --> done`)
	// Option without a backing edge renders dotted.
	assert.Contains(t, out, `choose -. "No" .-> help`)
}

func TestGenerateMermaidOverlay(t *testing.T) {
	out := GenerateMermaid(buildTestGraph(t), &Overlay{
		VisitedNodes: []string{"welcome", "choose"},
		CurrentNode:  "choose",
	})

	assert.Contains(t, out, "classDef visited")
	assert.Contains(t, out, "class welcome visited")
	assert.Contains(t, out, "class choose current")
	assert.NotContains(t, out, "class choose visited", "current node takes precedence")
}

func TestGenerateMermaidNoOverlay(t *testing.T) {
	out := GenerateMermaid(buildTestGraph(t), nil)
	assert.NotContains(t, out, "classDef")
}

func TestSanitizeMermaidID(t *testing.T) {
	g, err := flow.Build(flow.Document{
		Start: "fee-waiver.intro",
		Nodes: map[string]domain.Node{
			"fee-waiver.intro": {ID: "fee-waiver.intro", Kind: domain.KindStart},
		},
	})
	require.NoError(t, err)

	out := GenerateMermaid(g, nil)
	assert.Contains(t, out, "fee_waiver_intro")
	assert.NotContains(t, out, "fee-waiver.intro((")
}
