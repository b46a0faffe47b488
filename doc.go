/*
Package guideway is a guided-flow graph engine for self-service legal-intake
kiosks.

It models a branching questionnaire as a directed graph of nodes and edges,
walks a user through it one decision at a time, tracks the path taken, and
emits a structured "what happened and what's next" record to a back-office
sink when the walk reaches a terminal node.

# Concept

A questionnaire is authored as a graph document (YAML or JSON): a node map,
a start id, and directed edges with optional guard labels. The document is
validated and indexed once; traversal, summarization, and completion are
read-only projections over the validated graph plus a per-session state.
The Hexagonal Architecture keeps rendering, queueing, and storage behind
narrow ports, so the same engine serves the wizard view, the map view, and
the synced dual-pane view.

# Usage

	doc, err := graph.LoadFile("intake.yaml")
	if err != nil {
		log.Fatal(err)
	}
	g, err := graph.Build(doc)
	if err != nil {
		log.Fatal(err)
	}

	sess, err := guideway.Open(ctx, g,
		guideway.WithSessionID("kiosk-1"),
		guideway.WithStore(memory.NewStore()),
		guideway.WithCompletionSink(queueSink),
	)
	if err != nil {
		log.Fatal(err)
	}

	for _, choice := range sess.Options() {
		fmt.Println(choice.Label)
	}
	record, err := sess.Advance(ctx, "Yes")

A non-nil record means the session reached a terminal node: it carries the
case classification, the implicated court forms, the raw answers, and the
correlation token assigned by the completion sink (e.g. a queue number).
*/
package guideway
