// Package testutils provides shared fixtures for tests across the module.
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/graph"
)

// IntakeDocument returns a small but representative intake flow document:
//
//	welcome (start)
//	  └─ eligibility (decision)
//	       ├─ Yes ─ forms (process, forms FW-001, CR-1234)
//	       │          └─ done (end)
//	       └─ No ── referral (end)
func IntakeDocument() graph.Document {
	return graph.Document{
		Start: "welcome",
		Nodes: map[string]domain.Node{
			"welcome": {ID: "welcome", Kind: domain.KindStart, Text: "Welcome to the self-help kiosk."},
			"eligibility": {
				ID:   "eligibility",
				Kind: domain.KindDecision,
				Text: "Do you need help paying court fees?",
			},
			"forms": {
				ID:    "forms",
				Kind:  domain.KindProcess,
				Text:  "Fee waiver\nWe will prepare form FW-001 for you.",
				Forms: []string{"FW-001", "CR-1234"},
			},
			"done":     {ID: "done", Kind: domain.KindEnd, Text: "Fee waiver request\nTake your packet to window 3."},
			"referral": {ID: "referral", Kind: domain.KindEnd, Text: "Referral\nPlease see the clerk at window 1."},
		},
		Edges: []domain.Edge{
			{From: "welcome", To: "eligibility"},
			{From: "eligibility", To: "forms", When: "Yes"},
			{From: "eligibility", To: "referral", When: "No"},
			{From: "forms", To: "done"},
		},
	}
}

// IntakeGraph builds IntakeDocument and fails the test on any build error.
func IntakeGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build(IntakeDocument())
	require.NoError(t, err, "fixture document must build")
	return g
}

// LinearDocument returns a trivial start → step → end flow with no branches.
func LinearDocument() graph.Document {
	return graph.Document{
		Start: "start",
		Nodes: map[string]domain.Node{
			"start": {ID: "start", Kind: domain.KindStart, Text: "Begin"},
			"step":  {ID: "step", Kind: domain.KindProcess, Text: "One step"},
			"end":   {ID: "end", Kind: domain.KindEnd, Text: "Done"},
		},
		Edges: []domain.Edge{
			{From: "start", To: "step"},
			{From: "step", To: "end"},
		},
	}
}

// LinearGraph builds LinearDocument and fails the test on any build error.
func LinearGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build(LinearDocument())
	require.NoError(t, err)
	return g
}
