/*
Package domain contains the core domain models for the Guideway engine.

It defines the fundamental entities of the questionnaire graph, such as Nodes,
Edges, and the session State. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Node: one questionnaire step (start, process, decision, or end).
  - Edge: a directed, optionally guarded transition between two nodes.
  - Choice: the normalized, presentation-ready form of a transition.
  - State: the runtime snapshot of one session (current node, trail, decisions).
  - CompletionRecord: the derived summary handed to a back-office sink.
*/
package domain
