/*
Package session implements session persistence orchestration.

It serializes access per session key, snapshots traversal state after each
transition, and validates restored state against the currently loaded graph
so a kiosk never silently resumes into a node that no longer exists. An
optional distributed locker coordinates replicas sharing one store.
*/
package session
