package domain

// NodeKind constants define how the engine treats a node's outgoing
// transitions. Presentation-only differences (icons, layout) live in the
// hosts; the engine only branches on "decision" vs everything else.
const (
	// KindStart marks the declared entry node of a graph.
	KindStart = "start"
	// KindProcess is an informational step with a single "continue" exit.
	KindProcess = "process"
	// KindDecision offers mutually exclusive, user-selected branches.
	KindDecision = "decision"
	// KindEnd is a terminal node; entering one completes the session.
	KindEnd = "end"
)

// Node represents one step of a questionnaire graph.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Kind string `json:"kind" yaml:"kind"` // "start", "process", "decision", "end"

	// Text is the human-readable prompt or body. The engine treats it as
	// opaque except for best-effort form-code extraction.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Options is an explicit, ordered list of choices. When present it takes
	// precedence over choices derived from the edge list.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Forms lists court-form codes attached to this node. An explicit list
	// is authoritative and suppresses text scraping for this node.
	Forms []string `json:"forms,omitempty" yaml:"forms,omitempty"`

	// Metadata allows extensible key-value pairs (display hints, etc).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsTerminal reports whether entering this node completes a session.
func (n Node) IsTerminal() bool {
	return n.Kind == KindEnd
}

// Option is a first-class labeled choice declared on a node, independent of
// the graph's edge list.
type Option struct {
	Label    string `json:"label" yaml:"label"`
	TargetID string `json:"target_id" yaml:"to"`
}
