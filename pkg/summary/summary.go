package summary

import (
	"fmt"
	"strings"

	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/graph"
)

// PhaseUnknown is reported when no phase rule matches the visited trail.
const PhaseUnknown = "unknown"

// PhaseRule maps well-known "entry" node ids to a named intake phase.
// Rules are checked in slice order; the first rule with an entry node present
// in the trail wins.
type PhaseRule struct {
	Phase      string   `json:"phase" yaml:"phase"`
	EntryNodes []string `json:"entry_nodes" yaml:"entry_nodes"`
}

// View is the "where am I / what's next" projection a rendering host needs,
// structured so it requires no further graph knowledge.
type View struct {
	NodeID  string          `json:"node_id"`
	Kind    string          `json:"kind"`
	Text    string          `json:"text"`
	Choices []domain.Choice `json:"choices"`
	Trail   []string        `json:"trail"`
}

// Report is the full read-only summary of a session at the moment of call.
type Report struct {
	Phase        string   `json:"phase"`
	VisitedForms []string `json:"visited_forms"`
	View         View     `json:"view"`
}

// Summarizer derives phase classification, implicated forms, and the current
// view from a traversal state. It is a pure projection: it never mutates
// state, and two calls without an intervening transition yield identical
// output.
type Summarizer struct {
	graph  *graph.Graph
	phases []PhaseRule
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithPhaseRules injects the phase-classification table. Different
// questionnaire graphs supply their own rules; without any, every session
// reports PhaseUnknown.
func WithPhaseRules(rules []PhaseRule) Option {
	return func(s *Summarizer) {
		s.phases = rules
	}
}

// New creates a Summarizer bound to a validated graph.
func New(g *graph.Graph, opts ...Option) *Summarizer {
	s := &Summarizer{graph: g}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase classifies the trail by scanning the phase rules in priority order.
func (s *Summarizer) Phase(state *domain.State) string {
	visited := make(map[string]bool, len(state.Path))
	for _, entry := range state.Path {
		visited[entry.NodeID] = true
	}

	for _, rule := range s.phases {
		for _, id := range rule.EntryNodes {
			if visited[id] {
				return rule.Phase
			}
		}
	}
	return PhaseUnknown
}

// Forms returns the deduplicated, sorted form codes implicated by the trail.
func (s *Summarizer) Forms(state *domain.State) []string {
	return CollectForms(state.Path)
}

// CurrentView projects the session's position for a rendering host.
func (s *Summarizer) CurrentView(state *domain.State) View {
	node := state.Current()
	return View{
		NodeID:  node.ID,
		Kind:    node.Kind,
		Text:    node.Text,
		Choices: s.graph.Choices(node.ID),
		Trail:   state.VisitedIDs(),
	}
}

// Summarize assembles the full report.
func (s *Summarizer) Summarize(state *domain.State) Report {
	return Report{
		Phase:        s.Phase(state),
		VisitedForms: s.Forms(state),
		View:         s.CurrentView(state),
	}
}

// Narrative renders a plain-text recap of the walk: one line per decision
// taken, closed by the current node's text. Used for the completion record's
// human-readable summary.
func (s *Summarizer) Narrative(state *domain.State) string {
	var sb strings.Builder
	for _, d := range state.Decisions {
		from, _ := s.graph.Node(d.From)
		prompt := firstLine(from.Text)
		if prompt == "" {
			prompt = d.From
		}
		label := d.When
		if label == "" {
			label = domain.FallbackLabel
		}
		fmt.Fprintf(&sb, "%s: %s\n", prompt, label)
	}

	if text := firstLine(state.Current().Text); text != "" {
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Classification names the outcome a terminal node represents: the first
// line of its text, falling back to its id.
func Classification(node domain.Node) string {
	if line := firstLine(node.Text); line != "" {
		return line
	}
	return node.ID
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
