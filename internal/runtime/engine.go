// Package runtime implements the stateless traversal core: the state machine
// whose states are the node ids of a validated graph. It owns no session
// state of its own; every operation takes the session's *domain.State
// explicitly, which keeps the core trivially reusable across front-ends.
package runtime

import (
	"log/slog"
	"strings"

	"github.com/opencourtlab/guideway/internal/logging"
	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/graph"
)

// Engine walks a validated graph. All operations are plain synchronous
// functions; there is no internal suspension point.
type Engine struct {
	graph  *graph.Graph
	logger *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for traversal events.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine bound to a validated graph.
func NewEngine(g *graph.Graph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:  g,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph exposes the bound graph for read-only collaborators (summarizer,
// visualization).
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// NewState creates a fresh state positioned at the graph's start node.
func (e *Engine) NewState() *domain.State {
	return domain.NewState(e.graph.Start())
}

// Choices returns the ordered selectable transitions at the state's current
// node. An empty list signals a dead end, whether or not the node is of kind
// "end".
func (e *Engine) Choices(state *domain.State) []domain.Choice {
	return e.graph.Choices(state.CurrentID)
}

// IsTerminal reports whether the state sits on a terminal node.
func (e *Engine) IsTerminal(state *domain.State) bool {
	return state.Current().IsTerminal()
}

// Advance resolves label against the current node's choices and moves the
// state forward, appending the target to the path and the taken edge to the
// decision trail.
//
// An unmatched label at a decision node is a usage error: the caller
// presented a choice that does not exist. The state is left untouched and an
// *domain.InvalidChoiceError is returned. At any other node an unmatched
// label follows the node's single continue choice; a node with no choices at
// all makes the call a no-op (moved == false, nil error).
func (e *Engine) Advance(state *domain.State, label string) (moved bool, err error) {
	current := state.Current()
	choices := e.Choices(state)

	choice, ok := match(choices, label)
	if !ok {
		if current.Kind == domain.KindDecision {
			return false, &domain.InvalidChoiceError{NodeID: current.ID, Label: label}
		}
		if len(choices) == 0 {
			// Dead end. Already nowhere to go, so swallow the input.
			return false, nil
		}
		if len(choices) > 1 {
			// Explicit options on a non-decision node are still mutually
			// exclusive; an unmatched label is a usage error there too.
			return false, &domain.InvalidChoiceError{NodeID: current.ID, Label: label}
		}
		choice = choices[0]
	}

	target, ok := e.graph.Node(choice.Edge.To)
	if !ok {
		// Unreachable on a validated graph; kept as a hard guard.
		return false, domain.ErrNoSuchNode
	}

	state.Path = append(state.Path, domain.PathEntry{NodeID: target.ID, Node: target})
	state.Decisions = append(state.Decisions, domain.Decision{
		From: current.ID,
		When: choice.Edge.When,
		To:   target.ID,
	})
	state.CurrentID = target.ID

	e.logger.Debug("advanced", "from", current.ID, "to", target.ID, "label", choice.Label)
	return true, nil
}

// Back rewinds the most recent step. The start node is never popped.
// Decisions taken from the node being revisited become stale and are
// removed, so a subsequent Advance records a fresh one.
func (e *Engine) Back(state *domain.State) bool {
	if len(state.Path) <= 1 {
		return false
	}

	popped := state.Path[len(state.Path)-1]
	state.Path = state.Path[:len(state.Path)-1]
	state.CurrentID = state.Path[len(state.Path)-1].NodeID

	kept := state.Decisions[:0]
	for _, d := range state.Decisions {
		if d.From != state.CurrentID {
			kept = append(kept, d)
		}
	}
	state.Decisions = kept

	e.logger.Debug("rewound", "from", popped.NodeID, "to", state.CurrentID)
	return true
}

// Reset returns the state to its initial shape in place. Idempotent.
func (e *Engine) Reset(state *domain.State) {
	fresh := e.NewState()
	state.CurrentID = fresh.CurrentID
	state.Path = fresh.Path
	state.Decisions = fresh.Decisions
}

// CheckState verifies that a (possibly restored) state still resolves
// against the current graph. Graphs may be redeployed between kiosk
// sessions; a session saved against an older deployment must not silently
// resume into a node that no longer exists.
func (e *Engine) CheckState(state *domain.State) error {
	if state == nil || len(state.Path) == 0 {
		return &domain.RestoreMismatchError{}
	}
	if _, ok := e.graph.Node(state.CurrentID); !ok {
		return &domain.RestoreMismatchError{NodeID: state.CurrentID}
	}
	return nil
}

// match resolves a label against choices: exact match first, then
// case-insensitive, always taking the first hit in document order.
func match(choices []domain.Choice, label string) (domain.Choice, bool) {
	for _, c := range choices {
		if c.Label == label {
			return c, true
		}
	}
	for _, c := range choices {
		if strings.EqualFold(c.Label, label) {
			return c, true
		}
	}
	return domain.Choice{}, false
}
