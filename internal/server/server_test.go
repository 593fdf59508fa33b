package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type routesHandler struct{}

func (routesHandler) Routes() []string { return []string{"GET /a", "POST /b"} }

func (routesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("handled " + r.URL.Path))
}

func ok(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestBasicRouter(t *testing.T) {
	t.Run("method scoped routes", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle("get", "/healthz", ok("ok"))

		if rec := serve(r, http.MethodGet, "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Errorf("unexpected GET response: %d %q", rec.Code, rec.Body.String())
		}
		if rec := serve(r, http.MethodPost, "/healthz"); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("root matches only root", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/", ok("index"))

		if rec := serve(r, http.MethodGet, "/"); rec.Body.String() != "index" {
			t.Errorf("unexpected root response %q", rec.Body.String())
		}
		if rec := serve(r, http.MethodGet, "/missing"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("custom handler routes", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(routesHandler{})

		if rec := serve(r, http.MethodGet, "/a"); rec.Body.String() != "handled /a" {
			t.Errorf("unexpected response %q", rec.Body.String())
		}
		if rec := serve(r, http.MethodPost, "/b"); rec.Body.String() != "handled /b" {
			t.Errorf("unexpected response %q", rec.Body.String())
		}
		if rec := serve(r, http.MethodGet, "/b"); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if got := strings.Join(r.Patterns(), ","); got != "GET /a,POST /b" {
			t.Errorf("unexpected patterns %q", got)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(tag("first"), tag("second"))
		r.Handle(http.MethodGet, "/", ok(""))
		serve(r, http.MethodGet, "/")

		if strings.Join(order, ",") != "first,second" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		serve(h, http.MethodGet, "/tea")

		out := buf.String()
		if !strings.Contains(out, "path=/tea") || !strings.Contains(out, "status=418") {
			t.Errorf("unexpected log line %q", out)
		}
	})

	t.Run("Logging defaults to 200", func(t *testing.T) {
		var buf bytes.Buffer
		serve(Logging(log.New(&buf))(ok("body")), http.MethodGet, "/")

		if !strings.Contains(buf.String(), "status=200") {
			t.Errorf("unexpected log line %q", buf.String())
		}
	})

	t.Run("Recover", func(t *testing.T) {
		var buf bytes.Buffer
		h := Recover(log.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := serve(h, http.MethodGet, "/")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "boom") {
			t.Errorf("panic not logged: %q", buf.String())
		}
	})
}

func TestRun(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	r := NewBasicRouter()
	r.Handle(http.MethodGet, "/healthz", ok("ok"))
	srv := New(ln.Addr().String(), r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, ln, log.New(io.Discard)) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("unexpected body %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
