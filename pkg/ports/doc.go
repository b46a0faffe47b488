/*
Package ports defines the driven ports (interfaces) for the Guideway engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with various storage backends, completion sinks,
and rendering front-ends.

# Key Interfaces

  - Walker: the rendering collaborator contract UI layers consume.
  - StateStore: persists and restores session State.
  - CompletionSink: receives completion records (e.g. a queueing system).
  - DistributedLocker: distributed locking for replicated deployments.
*/
package ports
