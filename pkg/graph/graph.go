package graph

import (
	"sort"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// Graph is the validated, indexed form of a questionnaire document. It is
// immutable after Build; if the underlying document changes, callers build a
// new Graph rather than mutating this one.
type Graph struct {
	start    string
	nodes    map[string]domain.Node
	outgoing map[string][]domain.Edge
	incoming map[string][]domain.Edge
	choices  map[string][]domain.Choice
	warnings []Diagnostic
}

// StartID returns the declared entry node id.
func (g *Graph) StartID() string {
	return g.start
}

// Start returns the entry node.
func (g *Graph) Start() domain.Node {
	return g.nodes[g.start]
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns all nodes ordered by id. Used for introspection and
// visualization; traversal always goes through Choices.
func (g *Graph) Nodes() []domain.Node {
	ids := g.NodeIDs()
	nodes := make([]domain.Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Outgoing returns the edges leaving a node, in document order.
func (g *Graph) Outgoing(id string) []domain.Edge {
	return g.outgoing[id]
}

// Incoming returns the edges arriving at a node, in document order.
func (g *Graph) Incoming(id string) []domain.Edge {
	return g.incoming[id]
}

// Choices returns the normalized, ordered list of selectable transitions for
// a node, resolved once at build time. An empty list signals a dead end,
// whether or not the node is of kind "end".
func (g *Graph) Choices(id string) []domain.Choice {
	return g.choices[id]
}

// Warnings returns the advisory diagnostics recorded during Build (orphan
// nodes, ambiguous guard labels). They never block construction.
func (g *Graph) Warnings() []Diagnostic {
	return g.warnings
}
