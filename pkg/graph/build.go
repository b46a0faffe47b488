package graph

import (
	"fmt"
	"sort"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// Build turns a document into a validated Graph. Every structural violation
// is reported; nothing is silently dropped. On failure the returned
// AggregateError carries all diagnostics found, warnings included. On
// success, advisory warnings remain available through Graph.Warnings.
//
// Building the indices is O(nodes + edges).
func Build(doc Document) (*Graph, error) {
	diags := Validate(doc)

	var fatal bool
	for _, d := range diags {
		if d.Severity == SeverityError {
			fatal = true
			break
		}
	}
	if fatal {
		return nil, &AggregateError{Diagnostics: diags}
	}

	g := &Graph{
		start:    doc.Start,
		nodes:    make(map[string]domain.Node, len(doc.Nodes)),
		outgoing: make(map[string][]domain.Edge),
		incoming: make(map[string][]domain.Edge),
		choices:  make(map[string][]domain.Choice, len(doc.Nodes)),
		warnings: diags,
	}

	for id, node := range doc.Nodes {
		if node.ID == "" {
			node.ID = id
		}
		g.nodes[id] = node
	}

	for _, e := range doc.Edges {
		g.outgoing[e.From] = append(g.outgoing[e.From], e)
		g.incoming[e.To] = append(g.incoming[e.To], e)
	}

	for id, node := range g.nodes {
		g.choices[id] = resolveChoices(node, g.outgoing[id])
	}

	return g, nil
}

// Validate checks a document's well-formedness and returns every diagnostic
// found. It is a pure function over the document: no indices are retained.
func Validate(doc Document) []Diagnostic {
	var diags []Diagnostic

	exists := func(id string) bool {
		_, ok := doc.Nodes[id]
		return ok
	}

	if doc.Start == "" {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Message:  "document declares no start node",
		})
	} else if !exists(doc.Start) {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("start node %q does not exist", doc.Start),
		})
	}

	for i, e := range doc.Edges {
		if !exists(e.From) {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				NodeID:   e.From,
				Message:  fmt.Sprintf("edge %d originates from unknown node %q", i, e.From),
			})
		}
		if !exists(e.To) {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				NodeID:   e.To,
				Message:  fmt.Sprintf("edge %d targets unknown node %q", i, e.To),
			})
		}
	}

	outgoing := make(map[string][]domain.Edge)
	for _, e := range doc.Edges {
		outgoing[e.From] = append(outgoing[e.From], e)
	}

	for id, node := range doc.Nodes {
		for _, opt := range node.Options {
			if !exists(opt.TargetID) {
				diags = append(diags, Diagnostic{
					Severity: SeverityError,
					NodeID:   id,
					Message:  fmt.Sprintf("option %q targets unknown node %q", opt.Label, opt.TargetID),
				})
			}
		}
		diags = append(diags, ambiguousLabels(id, node, outgoing[id])...)
	}

	diags = append(diags, orphans(doc)...)

	return diags
}

// ambiguousLabels flags duplicate guard labels among a node's selectable
// transitions. The engine resolves such duplicates by first match in document
// order; the warning surfaces the ambiguity to graph authors.
func ambiguousLabels(id string, node domain.Node, out []domain.Edge) []Diagnostic {
	var labels []string
	switch {
	case len(node.Options) > 0:
		for _, opt := range node.Options {
			labels = append(labels, opt.Label)
		}
	case node.Kind == domain.KindDecision:
		for _, e := range out {
			labels = append(labels, e.Label())
		}
	default:
		return nil
	}

	seen := make(map[string]bool, len(labels))
	reported := make(map[string]bool)
	var diags []Diagnostic
	for _, label := range labels {
		if seen[label] && !reported[label] {
			reported[label] = true
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				NodeID:   id,
				Message:  fmt.Sprintf("label %q is offered more than once; the first match in document order wins", label),
			})
		}
		seen[label] = true
	}
	return diags
}

// orphans walks the document from its start node over edges and options and
// flags every node it never reaches. Advisory only: an orphan may be a
// work-in-progress branch the author has not linked yet.
func orphans(doc Document) []Diagnostic {
	if _, ok := doc.Nodes[doc.Start]; !ok {
		return nil // unreachable-from-start is meaningless without a start
	}

	outgoing := make(map[string][]string)
	for _, e := range doc.Edges {
		outgoing[e.From] = append(outgoing[e.From], e.To)
	}
	for id, node := range doc.Nodes {
		for _, opt := range node.Options {
			outgoing[id] = append(outgoing[id], opt.TargetID)
		}
	}

	visited := make(map[string]bool, len(doc.Nodes))
	queue := []string{doc.Start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		for _, target := range outgoing[current] {
			if _, ok := doc.Nodes[target]; ok && !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	var diags []Diagnostic
	// Deterministic report order.
	for _, id := range sortedKeys(doc.Nodes) {
		if !visited[id] {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				NodeID:   id,
				Message:  "node is not reachable from the start node",
			})
		}
	}
	return diags
}

// resolveChoices normalizes a node's transitions into the single
// representation the traversal engine deals with.
//
// Resolution order:
//  1. An explicit options list is used verbatim, pairing each option with a
//     matching outgoing edge when one exists, or a synthetic edge otherwise.
//  2. A decision node derives one choice per outgoing edge, labeled by the
//     edge's guard (or the fallback "Continue" when unguarded).
//  3. Any other node gets a single "Continue" choice bound to its first
//     outgoing edge, or no choices at all, which signals a dead end.
func resolveChoices(node domain.Node, out []domain.Edge) []domain.Choice {
	if len(node.Options) > 0 {
		choices := make([]domain.Choice, 0, len(node.Options))
		for _, opt := range node.Options {
			choices = append(choices, pairOption(node.ID, opt, out))
		}
		return choices
	}

	if node.Kind == domain.KindDecision {
		choices := make([]domain.Choice, 0, len(out))
		for _, e := range out {
			choices = append(choices, domain.Choice{Label: e.Label(), Edge: e})
		}
		return choices
	}

	if node.Kind == domain.KindEnd || len(out) == 0 {
		return nil
	}

	return []domain.Choice{{Label: domain.FallbackLabel, Edge: out[0]}}
}

// pairOption binds an explicit option to its backing edge. Preference order:
// an edge guarded by the option's label, then an unguarded edge to the same
// target, then any edge to the target, then a synthetic edge.
func pairOption(nodeID string, opt domain.Option, out []domain.Edge) domain.Choice {
	var fallback *domain.Edge
	for i, e := range out {
		if e.To != opt.TargetID {
			continue
		}
		if e.When == opt.Label {
			return domain.Choice{Label: opt.Label, Edge: e}
		}
		if fallback == nil || (fallback.When != "" && e.When == "") {
			fallback = &out[i]
		}
	}
	if fallback != nil {
		return domain.Choice{Label: opt.Label, Edge: *fallback}
	}
	return domain.Choice{
		Label:     opt.Label,
		Edge:      domain.Edge{From: nodeID, To: opt.TargetID, When: opt.Label},
		Synthetic: true,
	}
}

func sortedKeys(nodes map[string]domain.Node) []string {
	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
