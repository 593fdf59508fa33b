// Package tasks runs bulk lyrics lookups with real-time progress reporting.
//
// # Batch Lookups
//
// [BatchEngine.Run] takes a list of queries (usually parsed from CSV) and:
//   - fans them out to a bounded pool of workers
//   - gates every outbound lookup on a shared rate limiter
//   - runs each query through its own search.Controller, so validation and error messages match the
//     interactive front ends
//   - writes one lyrics file per success in the requested format
//   - writes batch_manifest.json summarizing every query
//
// Failed lookups are reported per query and never stop the batch. Cancelling the context stops dispatch and
// returns the partial result with the context error.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for richer UIs.
// Updates use select with default to prevent blocking.
package tasks
