package domain

// Edge defines a directed transition between two nodes.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`

	// When is an optional guard label shown to the user and matched against
	// a chosen option. An empty When is an unconditional "continue".
	When string `json:"when,omitempty" yaml:"when,omitempty"`
}

// FallbackLabel is presented for transitions that carry no guard label.
const FallbackLabel = "Continue"

// Label returns the user-facing label for this edge.
func (e Edge) Label() string {
	if e.When == "" {
		return FallbackLabel
	}
	return e.When
}

// Choice is the normalized, presentation-ready form of a transition: the
// single representation the traversal engine deals with, resolved once at
// build time from a node's explicit options or its outgoing edges.
type Choice struct {
	Label string `json:"label"`
	Edge  Edge   `json:"edge"`

	// Synthetic marks choices whose edge does not exist in the document's
	// edge list (explicit options without a backing edge, or the implicit
	// "continue" of a process node).
	Synthetic bool `json:"synthetic,omitempty"`
}
