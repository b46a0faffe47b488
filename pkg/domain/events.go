package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventAdvance  EventType = "advance"
	EventBack     EventType = "back"
	EventReset    EventType = "reset"
	EventComplete EventType = "complete"
)

// StepEvent describes one traversal transition.
type StepEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Label     string    `json:"label,omitempty"`
}

// LifecycleHooks defines optional callbacks for host-side observability.
// Nil hooks are skipped; hooks must not mutate engine state.
type LifecycleHooks struct {
	OnAdvance  func(context.Context, *StepEvent)
	OnBack     func(context.Context, *StepEvent)
	OnReset    func(context.Context, *StepEvent)
	OnComplete func(context.Context, *CompletionRecord)
}
