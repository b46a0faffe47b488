package ports

import (
	"context"

	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/summary"
)

// Walker is the rendering collaborator contract: the narrow surface a UI
// layer (wizard view, map view, synced dual-pane view) reads and drives the
// engine through. The UI never inspects the graph directly.
type Walker interface {
	// Current returns the node the session is positioned at.
	Current() domain.Node

	// Options returns the ordered selectable choices at the current node.
	// An empty list signals a dead end.
	Options() []domain.Choice

	// Advance resolves label against the current choices and moves forward.
	// A completion record is returned when this call entered a terminal node.
	Advance(ctx context.Context, label string) (*domain.CompletionRecord, error)

	// Back rewinds the most recent step. Popping the start node is a no-op.
	Back(ctx context.Context) error

	// Reset restores the session to its initial state and clears persisted
	// session state.
	Reset(ctx context.Context) error

	// Summary returns the read-only projection of the session.
	Summary() summary.Report
}
