package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build(graph.Document{
		Start: "welcome",
		Nodes: map[string]domain.Node{
			"welcome": {ID: "welcome", Kind: domain.KindStart, Text: "Welcome to the kiosk."},
			"fees": {
				ID:   "fees",
				Kind: domain.KindDecision,
				Text: "Do you need help paying court fees?",
			},
			"waiver": {ID: "waiver", Kind: domain.KindProcess, Forms: []string{"FW-001"}},
			"done":   {ID: "done", Kind: domain.KindEnd, Text: "Fee waiver request\nTake your packet to window 3."},
			"clerk":  {ID: "clerk", Kind: domain.KindEnd, Text: "See the clerk."},
		},
		Edges: []domain.Edge{
			{From: "welcome", To: "fees"},
			{From: "fees", To: "waiver", When: "Yes"},
			{From: "fees", To: "clerk", When: "No"},
			{From: "waiver", To: "done"},
		},
	})
	require.NoError(t, err)
	return g
}

// walkTo builds a state that has walked welcome → fees → waiver.
func walkTo(t *testing.T, g *graph.Graph) *domain.State {
	t.Helper()
	state := domain.NewState(g.Start())

	fees, _ := g.Node("fees")
	state.Path = append(state.Path, domain.PathEntry{NodeID: "fees", Node: fees})
	state.Decisions = append(state.Decisions, domain.Decision{From: "welcome", To: "fees"})

	waiver, _ := g.Node("waiver")
	state.Path = append(state.Path, domain.PathEntry{NodeID: "waiver", Node: waiver})
	state.Decisions = append(state.Decisions, domain.Decision{From: "fees", When: "Yes", To: "waiver"})

	state.CurrentID = "waiver"
	return state
}

func TestPhaseFirstMatchingRuleWins(t *testing.T) {
	g := testGraph(t)
	s := New(g, WithPhaseRules([]PhaseRule{
		{Phase: "triage", EntryNodes: []string{"fees"}},
		{Phase: "paperwork", EntryNodes: []string{"waiver"}},
	}))

	state := walkTo(t, g)
	assert.Equal(t, "triage", s.Phase(state), "rule order, not visit order, decides")
}

func TestPhaseUnknownWithoutRules(t *testing.T) {
	g := testGraph(t)
	s := New(g)
	assert.Equal(t, PhaseUnknown, s.Phase(domain.NewState(g.Start())))
}

func TestForms(t *testing.T) {
	g := testGraph(t)
	s := New(g)
	assert.Equal(t, []string{"FW-001"}, s.Forms(walkTo(t, g)))
}

func TestCurrentView(t *testing.T) {
	g := testGraph(t)
	s := New(g)

	view := s.CurrentView(walkTo(t, g))
	assert.Equal(t, "waiver", view.NodeID)
	assert.Equal(t, domain.KindProcess, view.Kind)
	assert.Equal(t, []string{"welcome", "fees", "waiver"}, view.Trail)
	require.Len(t, view.Choices, 1)
	assert.Equal(t, domain.FallbackLabel, view.Choices[0].Label)
}

func TestSummarizeIsPure(t *testing.T) {
	g := testGraph(t)
	s := New(g, WithPhaseRules([]PhaseRule{{Phase: "triage", EntryNodes: []string{"fees"}}}))
	state := walkTo(t, g)

	first := s.Summarize(state)
	second := s.Summarize(state)
	assert.Equal(t, first, second)
	assert.Equal(t, "waiver", state.CurrentID, "summarize must not move the session")
}

func TestNarrative(t *testing.T) {
	g := testGraph(t)
	s := New(g)

	got := s.Narrative(walkTo(t, g))
	assert.Contains(t, got, "Welcome to the kiosk.: Continue")
	assert.Contains(t, got, "Do you need help paying court fees?: Yes")
}

func TestClassification(t *testing.T) {
	assert.Equal(t, "Fee waiver request", Classification(domain.Node{
		ID:   "done",
		Text: "Fee waiver request\nTake your packet to window 3.",
	}))
	assert.Equal(t, "done", Classification(domain.Node{ID: "done"}))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Hello", firstLine("  Hello  \nworld"))
	assert.Equal(t, "", firstLine("   \n  "))
}
