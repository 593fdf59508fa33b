// Package search implements the lyrics search controller: the form state, the submit/lookup cycle, and the
// [Result] the front ends render.
//
// # State Machine
//
// A [Controller] holds the pending [models.Query] and exactly one [Result]:
//
//	Idle ──submit(valid)──▶ Loading ──ok──▶ Success
//	                          │
//	                          └─fail─▶ Failure
//	Success/Failure ──submit(valid)──▶ Loading
//	any but Loading ──submit(invalid)──▶ Failure
//
// Field edits never change the Result; a displayed song keeps its own [models.SongRef].
//
// # Requests
//
// [Controller.Begin] validates, enters Loading and issues a [Request] carrying a sequence number.
// [Controller.Complete] applies an outcome only when its request is the latest one issued, so a late
// response can never overwrite a newer search. Begin refuses with [shared.ErrBusy] while a lookup is in
// flight. [Controller.Submit] runs the whole cycle synchronously.
//
// Transitions are serialized by the controller's mutex; the lookup itself runs outside the lock.
package search
