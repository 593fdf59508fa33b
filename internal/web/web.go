// Package web implements the HTMX single-page lyrics search form.
//
// # Routes
//
//	GET  /         → full page: form, error banner, lyrics panel
//	POST /search   → submit; HTMX requests receive only the #app fragment
//	GET  /healthz  → "ok"
//
// # Sessions
//
// Every browser gets its own search.Controller, keyed by the museekly_session cookie. Sessions live in
// memory for the life of the process. A submit while that browser's lookup is still in flight is answered
// with 409 and the current state.
//
// # Templates
//
// templates/index.html defines "page" (the document) and "app" (the swappable region). Both render a
// search.Display, so the web front end draws exactly what the terminal front end draws.
package web
