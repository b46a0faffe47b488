package domain

import "time"

// CompletionRecord is the derived "what happened and what's next" summary
// produced once a session reaches a terminal node. It is never stored by the
// engine; it exists to be handed to a back-office sink (queueing,
// persistence, notification).
type CompletionRecord struct {
	// Classification identifies the terminal outcome, taken from the end
	// node reached (its id, or its text's first line when present).
	Classification string `json:"classification"`

	// Narrative is a human-readable recap of the walk.
	Narrative string `json:"narrative"`

	// Forms lists the court-form codes implicated by the visited trail,
	// deduplicated and sorted.
	Forms []string `json:"forms"`

	// Answers maps each branch point (node id) to the label chosen there.
	Answers map[string]string `json:"answers"`

	// Phase is the classification produced by the summarizer's phase rules,
	// or "unknown".
	Phase string `json:"phase"`

	// Trail is the full visited node id sequence.
	Trail []string `json:"trail"`

	// CompletedAt is when the terminal transition happened.
	CompletedAt time.Time `json:"completed_at"`

	// CorrelationToken is assigned by the external sink (e.g. a queue
	// number). Empty when the sink declined or failed.
	CorrelationToken string `json:"correlation_token,omitempty"`
}
