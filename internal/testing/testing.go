// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/museekly/internal/models"
)

// MockLookup is a test double for services.LyricsService.
//
// Responses are keyed by "artist|title"; unknown keys return Err (or "" with no error when Err is nil).
// When Gate is non-nil every call blocks until a value is received from it or ctx ends.
type MockLookup struct {
	Lyrics map[string]string
	Errors map[string]error
	Err    error
	Gate   chan struct{}

	mu    sync.Mutex
	calls []models.Query
}

func (m *MockLookup) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, models.Query{Artist: artist, Title: title})
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	key := artist + "|" + title
	if err, ok := m.Errors[key]; ok {
		return "", err
	}
	if lyrics, ok := m.Lyrics[key]; ok {
		return lyrics, nil
	}
	return "", m.Err
}

func (m *MockLookup) Name() string { return "mock" }

// Calls returns the queries the double has received, in order.
func (m *MockLookup) Calls() []models.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Query(nil), m.calls...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
