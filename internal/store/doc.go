// Package store defines the persistence boundary for generated artifacts.
// The ArtifactStore interface abstracts the underlying storage from the
// generation orchestrator, which relies only on atomic replace-or-insert by
// key and simple key-based lookups.
package store
