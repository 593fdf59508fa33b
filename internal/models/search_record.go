package models

import (
	"fmt"
	"strings"
	"time"
)

// SearchStatus is the persisted outcome of a lookup.
type SearchStatus string

const (
	SearchSucceeded SearchStatus = "success"
	SearchFailed    SearchStatus = "failure"
)

// SearchRecord is one resolved lookup stored in the search history.
type SearchRecord struct {
	id        string
	sequence  int
	artist    string
	title     string
	status    SearchStatus
	message   string
	lyrics    string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSearchRecord creates a record for a lookup outcome. The ID is assigned by the repository.
func NewSearchRecord(sequence int, q Query, status SearchStatus, message, lyrics string) *SearchRecord {
	now := time.Now()
	return &SearchRecord{
		sequence:  sequence,
		artist:    q.Artist,
		title:     q.Title,
		status:    status,
		message:   message,
		lyrics:    lyrics,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreSearchRecord rebuilds a record from stored columns.
func RestoreSearchRecord(
	id string,
	sequence int,
	artist, title string,
	status SearchStatus,
	message, lyrics string,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *SearchRecord {
	return &SearchRecord{
		id:        id,
		sequence:  sequence,
		artist:    artist,
		title:     title,
		status:    status,
		message:   message,
		lyrics:    lyrics,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (r *SearchRecord) ID() string            { return r.id }
func (r *SearchRecord) Sequence() int         { return r.sequence }
func (r *SearchRecord) Artist() string        { return r.artist }
func (r *SearchRecord) Title() string         { return r.title }
func (r *SearchRecord) Status() SearchStatus  { return r.status }
func (r *SearchRecord) Message() string       { return r.message }
func (r *SearchRecord) Lyrics() string        { return r.lyrics }
func (r *SearchRecord) CreatedAt() time.Time  { return r.createdAt }
func (r *SearchRecord) UpdatedAt() time.Time  { return r.updatedAt }
func (r *SearchRecord) DeletedAt() *time.Time { return r.deletedAt }
func (r *SearchRecord) IsDeleted() bool       { return r.deletedAt != nil }

// Query returns the artist/title that was searched.
func (r *SearchRecord) Query() Query {
	return Query{Artist: r.artist, Title: r.title}
}

func (r *SearchRecord) SetID(id string)           { r.id = id }
func (r *SearchRecord) SetSequence(seq int)       { r.sequence = seq }
func (r *SearchRecord) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *SearchRecord) SetMessage(message string) { r.message = message }
func (r *SearchRecord) SetLyrics(lyrics string)   { r.lyrics = lyrics }
func (r *SearchRecord) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Validate checks required fields and the status/message pairing.
func (r *SearchRecord) Validate() error {
	if strings.TrimSpace(r.artist) == "" || strings.TrimSpace(r.title) == "" {
		return fmt.Errorf("artist and title are required")
	}

	switch r.status {
	case SearchSucceeded:
	case SearchFailed:
		if r.message == "" {
			return fmt.Errorf("failed search requires a message")
		}
	default:
		return fmt.Errorf("unknown status %q", r.status)
	}

	return nil
}

// SearchRecordJSON is the exported shape of a [SearchRecord] used by the CLI and formatter.
type SearchRecordJSON struct {
	ID        string       `json:"id"`
	Sequence  int          `json:"sequence"`
	Artist    string       `json:"artist"`
	Title     string       `json:"title"`
	Status    SearchStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// JSON converts the record to its exported shape. Lyrics are omitted.
func (r *SearchRecord) JSON() SearchRecordJSON {
	return SearchRecordJSON{
		ID:        r.id,
		Sequence:  r.sequence,
		Artist:    r.artist,
		Title:     r.title,
		Status:    r.status,
		Message:   r.message,
		CreatedAt: r.createdAt,
	}
}
