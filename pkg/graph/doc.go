/*
Package graph turns raw questionnaire documents into validated, indexed
graphs.

A Document is the author-facing shape (start id, node map, optional edge
list), loadable from YAML or JSON. Build validates it (reachable start, no
dangling edge or option targets, advisory orphan detection) and produces an
immutable Graph with outgoing/incoming edge indices and a normalized choice
list per node. The traversal engine only ever consumes the normalized
choices, so the two overlapping ways of authoring transitions (per-node
options vs. an edge list) are reconciled exactly once, here.
*/
package graph
