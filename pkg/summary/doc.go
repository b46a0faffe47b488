/*
Package summary derives read-only projections over a session's traversal
state: phase classification, implicated court-form codes, and the current
"where am I / what's next" view consumed by rendering hosts.

Everything here is pure. The summarizer never mutates state; calling it twice
without an intervening transition yields identical results.
*/
package summary
