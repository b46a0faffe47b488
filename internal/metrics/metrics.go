// Package metrics exposes Prometheus counters for kiosk operations. Metrics
// are registered on the default registry and served by the HTTP adapter's
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Advances counts successful forward transitions.
	Advances = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guideway",
		Name:      "advances_total",
		Help:      "Number of successful advance operations.",
	})

	// InvalidChoices counts advance attempts rejected with an invalid label.
	InvalidChoices = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guideway",
		Name:      "invalid_choices_total",
		Help:      "Number of advance operations rejected for an unknown label.",
	})

	// Rewinds counts back operations that actually popped a step.
	Rewinds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guideway",
		Name:      "rewinds_total",
		Help:      "Number of back operations that rewound a step.",
	})

	// Completions counts terminal transitions, partitioned by sink outcome.
	Completions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guideway",
		Name:      "completions_total",
		Help:      "Number of sessions that reached a terminal node.",
	}, []string{"sink"}) // sink: "ok", "failed", "none"

	// RestoreFallbacks counts persisted sessions that no longer fit the
	// current graph and were reset.
	RestoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guideway",
		Name:      "restore_fallbacks_total",
		Help:      "Number of persisted sessions discarded on restore mismatch.",
	})
)
