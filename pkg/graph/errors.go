package graph

import "fmt"

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityError marks a structural violation that blocks graph construction.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory finding (orphan nodes, ambiguous
	// labels) that does not block construction.
	SeverityWarning Severity = "warning"
)

// Diagnostic represents a single well-formedness finding in a graph document.
type Diagnostic struct {
	Severity Severity // error or warning
	NodeID   string   // the node the finding is anchored to, if any
	Message  string   // human-readable description
}

func (d Diagnostic) Error() string {
	if d.NodeID == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: node %q: %s", d.Severity, d.NodeID, d.Message)
}

// AggregateError carries every diagnostic found in a document. Validation
// reports all violations rather than stopping at the first.
type AggregateError struct {
	Diagnostics []Diagnostic
}

func (e *AggregateError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}
	msg := fmt.Sprintf("%d graph diagnostics:\n", len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msg += fmt.Sprintf("  %d. %s\n", i+1, d.Error())
	}
	return msg
}

// Errors returns the diagnostics carried by err if it is an AggregateError.
// Otherwise returns nil.
func Errors(err error) []Diagnostic {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Diagnostics
	}
	return nil
}
