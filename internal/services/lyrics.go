// Lyrics.ovh [LyricsService] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// DefaultLyricsBaseURL is the Lyrics.ovh API root.
const DefaultLyricsBaseURL string = "https://api.lyrics.ovh/v1"

// lyricsResponse is the success body. Lyrics is a pointer so a missing field can be told apart from an empty one.
type lyricsResponse struct {
	Lyrics *string `json:"lyrics"`
}

// LyricsOVHService implements [LyricsService] for https://lyrics.ovh.
type LyricsOVHService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewLyricsOVHService creates a new Lyrics.ovh service instance.
//
// An empty baseURL selects [DefaultLyricsBaseURL]; a nil client selects [http.DefaultClient].
func NewLyricsOVHService(baseURL string, client *http.Client) *LyricsOVHService {
	if baseURL == "" {
		baseURL = DefaultLyricsBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &LyricsOVHService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Name returns the service name.
func (s *LyricsOVHService) Name() string {
	return "Lyrics.ovh"
}

// SetRateLimit limits outbound requests to rps per second. Zero or less removes the limit.
func (s *LyricsOVHService) SetRateLimit(rps float64) {
	if rps <= 0 {
		s.limiter = nil
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// LyricsURL builds the request URL, escaping artist and title as path segments.
func (s *LyricsOVHService) LyricsURL(artist, title string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, url.PathEscape(artist), url.PathEscape(title))
}

// FetchLyrics retrieves lyrics with a single GET to {base}/{artist}/{title}.
func (s *LyricsOVHService) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", transportError(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.LyricsURL(artist, title), nil)
	if err != nil {
		return "", transportError(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", notFoundError(resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", serviceError(resp.StatusCode, fmt.Errorf("lyrics.ovh returned status %d", resp.StatusCode))
	}

	var body lyricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", serviceError(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	if body.Lyrics == nil || strings.TrimSpace(*body.Lyrics) == "" {
		return "", notFoundError(resp.StatusCode)
	}

	return *body.Lyrics, nil
}
