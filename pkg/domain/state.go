package domain

// PathEntry is one visited node in a session's trail. The node is stored by
// value so the trail stays meaningful even if the graph is redeployed.
type PathEntry struct {
	NodeID string `json:"node_id"`
	Node   Node   `json:"node"`
}

// Decision records one edge actually taken at a branch point.
type Decision struct {
	From string `json:"from"`
	When string `json:"when,omitempty"`
	To   string `json:"to"`
}

// State is the snapshot of a single kiosk session's walk through the graph.
// It is exclusively owned by one engine instance; hosts that run several
// simultaneous sessions give each its own State and storage key.
type State struct {
	// CurrentID is the identifier of the active node.
	CurrentID string `json:"current_id"`

	// Path is the ordered trail of visited nodes, append-only except on Back.
	Path []PathEntry `json:"path"`

	// Decisions holds exactly the edges taken, in order.
	Decisions []Decision `json:"decisions"`
}

// NewState creates a clean state positioned at the given start node.
func NewState(start Node) *State {
	return &State{
		CurrentID: start.ID,
		Path:      []PathEntry{{NodeID: start.ID, Node: start}},
		Decisions: []Decision{},
	}
}

// Clone returns a deep copy so stores and callers cannot mutate the
// session's live state through a shared slice.
func (s *State) Clone() *State {
	cp := &State{
		CurrentID: s.CurrentID,
		Path:      make([]PathEntry, len(s.Path)),
		Decisions: make([]Decision, len(s.Decisions)),
	}
	copy(cp.Path, s.Path)
	copy(cp.Decisions, s.Decisions)
	return cp
}

// VisitedIDs returns the trail of node ids in visit order.
func (s *State) VisitedIDs() []string {
	ids := make([]string, len(s.Path))
	for i, entry := range s.Path {
		ids[i] = entry.NodeID
	}
	return ids
}

// Current returns the snapshot of the node the session is positioned at.
// The last path entry is authoritative; CurrentID mirrors it.
func (s *State) Current() Node {
	if len(s.Path) == 0 {
		return Node{}
	}
	return s.Path[len(s.Path)-1].Node
}
