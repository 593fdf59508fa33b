// package services defines interface LyricsService for interacting with lyrics HTTP APIs
package services

import (
	"context"
)

// LyricsService defines the interface for lyrics providers.
type LyricsService interface {
	// FetchLyrics returns the lyrics for the song, or a [*LookupError].
	FetchLyrics(ctx context.Context, artist, title string) (string, error)

	// Name returns the name of the provider (e.g., "Lyrics.ovh")
	Name() string
}
