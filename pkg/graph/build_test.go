package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourtlab/guideway/pkg/domain"
)

func validDocument() Document {
	return Document{
		Start: "welcome",
		Nodes: map[string]domain.Node{
			"welcome":  {ID: "welcome", Kind: domain.KindStart, Text: "Welcome"},
			"question": {ID: "question", Kind: domain.KindDecision, Text: "Need a fee waiver?"},
			"waiver":   {ID: "waiver", Kind: domain.KindProcess, Forms: []string{"FW-001"}},
			"done":     {ID: "done", Kind: domain.KindEnd, Text: "All set"},
			"referral": {ID: "referral", Kind: domain.KindEnd, Text: "See the clerk"},
		},
		Edges: []domain.Edge{
			{From: "welcome", To: "question"},
			{From: "question", To: "waiver", When: "Yes"},
			{From: "question", To: "referral", When: "No"},
			{From: "waiver", To: "done"},
		},
	}
}

func TestBuildValidDocument(t *testing.T) {
	g, err := Build(validDocument())
	require.NoError(t, err)

	assert.Equal(t, "welcome", g.StartID())
	assert.Equal(t, 5, g.Len())
	assert.Equal(t, []string{"done", "question", "referral", "waiver", "welcome"}, g.NodeIDs())
	assert.Empty(t, g.Warnings())

	node, ok := g.Node("waiver")
	require.True(t, ok)
	assert.Equal(t, []string{"FW-001"}, node.Forms)

	_, ok = g.Node("nope")
	assert.False(t, ok)
}

func TestBuildReportsAllViolations(t *testing.T) {
	doc := Document{
		Start: "ghost",
		Nodes: map[string]domain.Node{
			"a": {ID: "a", Kind: domain.KindStart},
		},
		Edges: []domain.Edge{
			{From: "a", To: "missing"},
			{From: "also-missing", To: "a"},
		},
	}

	_, err := Build(doc)
	require.Error(t, err)

	diags := Errors(err)
	require.NotNil(t, diags, "build failure must carry diagnostics")
	assert.GreaterOrEqual(t, len(diags), 3, "unknown start plus two bad edge endpoints")
}

func TestBuildMissingStart(t *testing.T) {
	doc := validDocument()
	doc.Start = ""
	_, err := Build(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no start node")
}

func TestValidateUnknownOptionTarget(t *testing.T) {
	doc := Document{
		Start: "a",
		Nodes: map[string]domain.Node{
			"a": {ID: "a", Kind: domain.KindDecision, Options: []domain.Option{
				{Label: "Go", TargetID: "nowhere"},
			}},
		},
	}

	diags := Validate(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "a", diags[0].NodeID)
}

func TestValidateOrphanIsWarning(t *testing.T) {
	doc := validDocument()
	doc.Nodes["island"] = domain.Node{ID: "island", Kind: domain.KindProcess}

	g, err := Build(doc)
	require.NoError(t, err, "orphans never block construction")

	require.Len(t, g.Warnings(), 1)
	w := g.Warnings()[0]
	assert.Equal(t, SeverityWarning, w.Severity)
	assert.Equal(t, "island", w.NodeID)
}

func TestValidateOrphanReachableThroughOption(t *testing.T) {
	doc := validDocument()
	doc.Nodes["extra"] = domain.Node{ID: "extra", Kind: domain.KindEnd}
	done := doc.Nodes["done"]
	done.Options = []domain.Option{{Label: "More help", TargetID: "extra"}}
	doc.Nodes["done"] = done

	g, err := Build(doc)
	require.NoError(t, err)
	assert.Empty(t, g.Warnings(), "option targets count as reachability edges")
}

func TestValidateDuplicateLabelsWarnOnce(t *testing.T) {
	doc := Document{
		Start: "q",
		Nodes: map[string]domain.Node{
			"q": {ID: "q", Kind: domain.KindDecision},
			"a": {ID: "a", Kind: domain.KindEnd},
			"b": {ID: "b", Kind: domain.KindEnd},
			"c": {ID: "c", Kind: domain.KindEnd},
		},
		Edges: []domain.Edge{
			{From: "q", To: "a", When: "Yes"},
			{From: "q", To: "b", When: "Yes"},
			{From: "q", To: "c", When: "Yes"},
		},
	}

	diags := Validate(doc)
	require.Len(t, diags, 1, "same duplicate label reported once")
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, `"Yes"`)
}

func TestResolveChoicesDecisionEdges(t *testing.T) {
	g, err := Build(validDocument())
	require.NoError(t, err)

	choices := g.Choices("question")
	require.Len(t, choices, 2)
	assert.Equal(t, "Yes", choices[0].Label)
	assert.Equal(t, "waiver", choices[0].Edge.To)
	assert.Equal(t, "No", choices[1].Label)
	assert.Equal(t, "referral", choices[1].Edge.To)
}

func TestResolveChoicesSingleContinue(t *testing.T) {
	g, err := Build(validDocument())
	require.NoError(t, err)

	choices := g.Choices("welcome")
	require.Len(t, choices, 1)
	assert.Equal(t, domain.FallbackLabel, choices[0].Label)
	assert.Equal(t, "question", choices[0].Edge.To)
}

func TestResolveChoicesEndNodeHasNone(t *testing.T) {
	g, err := Build(validDocument())
	require.NoError(t, err)
	assert.Empty(t, g.Choices("done"))
	assert.Empty(t, g.Choices("referral"))
}

func TestResolveChoicesUnguardedDecisionEdgeGetsFallbackLabel(t *testing.T) {
	doc := Document{
		Start: "q",
		Nodes: map[string]domain.Node{
			"q": {ID: "q", Kind: domain.KindDecision},
			"a": {ID: "a", Kind: domain.KindEnd},
		},
		Edges: []domain.Edge{{From: "q", To: "a"}},
	}

	g, err := Build(doc)
	require.NoError(t, err)

	choices := g.Choices("q")
	require.Len(t, choices, 1)
	assert.Equal(t, domain.FallbackLabel, choices[0].Label)
}

func TestResolveChoicesExplicitOptions(t *testing.T) {
	doc := Document{
		Start: "menu",
		Nodes: map[string]domain.Node{
			"menu": {ID: "menu", Kind: domain.KindDecision, Options: []domain.Option{
				{Label: "Fee waiver", TargetID: "waiver"},
				{Label: "Name change", TargetID: "name"},
			}},
			"waiver": {ID: "waiver", Kind: domain.KindEnd},
			"name":   {ID: "name", Kind: domain.KindEnd},
		},
		Edges: []domain.Edge{
			// Only one option has a backing edge; the other gets a
			// synthetic one.
			{From: "menu", To: "waiver", When: "Fee waiver"},
		},
	}

	g, err := Build(doc)
	require.NoError(t, err)

	choices := g.Choices("menu")
	require.Len(t, choices, 2)

	assert.Equal(t, "Fee waiver", choices[0].Label)
	assert.False(t, choices[0].Synthetic)
	assert.Equal(t, "waiver", choices[0].Edge.To)

	assert.Equal(t, "Name change", choices[1].Label)
	assert.True(t, choices[1].Synthetic)
	assert.Equal(t, "name", choices[1].Edge.To)
	assert.Equal(t, "menu", choices[1].Edge.From)
}

func TestPairOptionPrefersUnguardedEdgeOverMismatchedGuard(t *testing.T) {
	out := []domain.Edge{
		{From: "n", To: "t", When: "other"},
		{From: "n", To: "t"},
	}
	choice := pairOption("n", domain.Option{Label: "Pick", TargetID: "t"}, out)
	assert.False(t, choice.Synthetic)
	assert.Equal(t, "", choice.Edge.When)
}
