package search

import (
	"strings"

	"github.com/desertthunder/museekly/internal/models"
)

// Status names the active variant of a [Result].
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the tagged variant Idle | Loading | Success{song, lyrics} | Failure{message}.
//
// Values are immutable and only built by the constructors below, so only the active variant's fields are set.
type Result struct {
	status  Status
	song    models.SongRef
	lyrics  string
	message string
}

// IdleResult is the state before any submit.
func IdleResult() Result { return Result{status: Idle} }

// LoadingResult is the state while a lookup is in flight.
func LoadingResult() Result { return Result{status: Loading} }

// SuccessResult holds the lyrics and the song they belong to.
func SuccessResult(song models.SongRef, lyrics string) Result {
	return Result{status: Success, song: song, lyrics: lyrics}
}

// FailureResult holds the message shown to the user.
func FailureResult(message string) Result {
	return Result{status: Failure, message: message}
}

func (r Result) Status() Status { return r.status }

// Song returns the song of a Success result.
func (r Result) Song() (models.SongRef, bool) {
	return r.song, r.status == Success
}

// Lyrics returns the lyrics of a Success result, or "".
func (r Result) Lyrics() string { return r.lyrics }

// Message returns the message of a Failure result, or "".
func (r Result) Message() string { return r.message }

// Display is what a front end draws for a [Result].
//
// Banner, Song/Lyrics and Busy are mutually exclusive; a zero Display draws nothing.
type Display struct {
	Busy   bool            // submit control disabled, busy indicator shown
	Banner string          // error banner text
	Song   *models.SongRef // lyrics panel header
	Lyrics string          // lyrics panel body
}

// Render maps a [Result] to its [Display]. It is a pure function of r.
func Render(r Result) Display {
	switch r.status {
	case Loading:
		return Display{Busy: true}
	case Failure:
		return Display{Banner: r.message}
	case Success:
		if strings.TrimSpace(r.lyrics) == "" {
			return Display{}
		}
		song := r.song
		return Display{Song: &song, Lyrics: r.lyrics}
	default:
		return Display{}
	}
}
