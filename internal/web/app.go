package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/shared"
)

// SessionCookie names the cookie that keys a browser's controller.
const SessionCookie = "museekly_session"

const (
	DefaultSessionTTL    = 30 * time.Minute
	DefaultMaxSessions   = 1000
	DefaultLookupTimeout = 30 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

// AppOpts configures an [App].
type AppOpts struct {
	Recorder      search.Recorder // Optional history recorder shared by all sessions
	Logger        *log.Logger
	Source        string        // Provider name shown in the footer
	SessionTTL    time.Duration // Idle time after which a session is dropped
	MaxSessions   int           // Live sessions kept before the least recently seen is evicted
	LookupTimeout time.Duration // Upper bound on one lookup, independent of the client connection
}

// App serves the search form. It implements server.Handler.
type App struct {
	lookup   search.Lookup
	recorder search.Recorder
	logger   *log.Logger
	source   string
	tmpl     *template.Template
	mux      *http.ServeMux
	ttl      time.Duration
	max      int
	timeout  time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	controller *search.Controller
	seen       time.Time
}

type pageData struct {
	Query   models.Query
	Display search.Display
	Source  string
}

// NewApp parses the embedded templates and builds the route table.
func NewApp(lookup search.Lookup, opts AppOpts) (*App, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	source := opts.Source
	if source == "" {
		source = "Lyrics.ovh"
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	maxSessions := opts.MaxSessions
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	a := &App{
		lookup:   lookup,
		recorder: opts.Recorder,
		logger:   logger,
		source:   source,
		tmpl:     tmpl,
		mux:      http.NewServeMux(),
		ttl:      ttl,
		max:      maxSessions,
		timeout:  timeout,
		now:      time.Now,
		sessions: make(map[string]*session),
	}

	a.mux.HandleFunc("GET /{$}", a.index)
	a.mux.HandleFunc("POST /search", a.search)
	a.mux.HandleFunc("GET /healthz", a.health)
	return a, nil
}

// Routes returns the mux patterns served by the app.
func (a *App) Routes() []string {
	return []string{"GET /{$}", "POST /search", "GET /healthz"}
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Sessions reports how many browser sessions are live.
func (a *App) Sessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	c := a.session(w, r)
	a.render(w, r, http.StatusOK, c)
}

func (a *App) search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	c := a.session(w, r)
	c.SetField(search.FieldArtist, r.PostFormValue("artist"))
	c.SetField(search.FieldTitle, r.PostFormValue("title"))

	// The lookup outlives a dropped connection so the session still gets its result.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), a.timeout)
	defer cancel()

	status := http.StatusOK
	if _, err := c.Submit(ctx); search.IsBusy(err) && !isHTMX(r) {
		status = http.StatusConflict
	}

	a.render(w, r, status, c)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// session returns the controller for the request's cookie, creating a session when the cookie is missing,
// unknown or expired.
func (a *App) session(w http.ResponseWriter, r *http.Request) *search.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if s, ok := a.sessions[cookie.Value]; ok && now.Sub(s.seen) <= a.ttl {
			s.seen = now
			return s.controller
		}
	}

	a.evict(now)

	id := shared.GenerateID()
	c := search.NewController(a.lookup, search.Options{
		Recorder: a.recorder,
		Logger:   shared.WithLogger(a.logger, "session", id[:8]),
	})
	a.sessions[id] = &session{controller: c, seen: now}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	a.logger.Debug("session started", "session", id[:8])
	return c
}

// evict drops idle sessions, then the least recently seen ones until there is room for one more.
// Callers hold a.mu.
func (a *App) evict(now time.Time) {
	for id, s := range a.sessions {
		if now.Sub(s.seen) > a.ttl {
			delete(a.sessions, id)
		}
	}

	for len(a.sessions) >= a.max {
		var oldest string
		for id, s := range a.sessions {
			if oldest == "" || s.seen.Before(a.sessions[oldest].seen) {
				oldest = id
			}
		}
		delete(a.sessions, oldest)
		a.logger.Debug("session evicted", "session", oldest[:8])
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render writes the full page, or only the "app" fragment for HTMX requests.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, c *search.Controller) {
	data := pageData{
		Query:   c.Query(),
		Display: search.Render(c.Result()),
		Source:  a.source,
	}

	name := "page"
	if isHTMX(r) {
		name = "app"
	}

	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
