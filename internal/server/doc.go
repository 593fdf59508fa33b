// Package server provides HTTP routing, middleware, and the server lifecycle for the web front end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Routes registered with
// [BasicRouter.Handle] are method-scoped patterns, so the mux answers other methods with 405.
//
// # Middleware
//
//   - [Logging] : one structured log line per request (method, path, status, duration)
//   - [Recover] : turns handler panics into 500 responses
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Lifecycle
//
// [Run] serves until its context is cancelled, then shuts down gracefully.
package server
