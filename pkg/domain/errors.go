package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session key cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoSuchNode is returned when a node id does not resolve in the graph.
var ErrNoSuchNode = errors.New("no such node")

// InvalidChoiceError is returned by Advance when the supplied label does not
// match any choice at a decision node. Engine state is left unchanged. This
// is the only error class meant to reach the end user.
type InvalidChoiceError struct {
	NodeID string
	Label  string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("choice %q is not available at node %q", e.Label, e.NodeID)
}

// RestoreMismatchError is returned when persisted session state no longer
// fits the currently loaded graph (graphs may be redeployed between kiosk
// sessions). Callers recover by starting a fresh session.
type RestoreMismatchError struct {
	NodeID string
}

func (e *RestoreMismatchError) Error() string {
	if e.NodeID == "" {
		return "saved session is empty or corrupt"
	}
	return fmt.Sprintf("saved session points at node %q, which is missing from the current graph", e.NodeID)
}
