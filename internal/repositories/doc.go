// Package repositories implements SQLite persistence for the search history.
//
// Repositories handle CRUD operations with atomic sequence generation for human-readable ordering.
// Deletes are soft (deleted_at timestamps) and deleted records are excluded from queries by default.
//
// Key Implementations:
//   - [SearchRepository] : resolved lookups, newest first
//   - [HistoryRecorder] : adapts a [SearchRepository] to the search controller's Recorder
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
