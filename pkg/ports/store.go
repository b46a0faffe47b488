package ports

import (
	"context"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// StateStore defines the interface for persisting traversal state, so a
// kiosk session survives a page reload or process restart.
type StateStore interface {
	// Save persists the state for a given session key.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session key.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session key.
	Delete(ctx context.Context, sessionID string) error
}

// ListableStore is implemented by stores that can enumerate active sessions.
type ListableStore interface {
	StateStore

	// List returns all persisted session keys.
	List(ctx context.Context) ([]string, error)
}
