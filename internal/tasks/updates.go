package tasks

import (
	"fmt"

	"github.com/desertthunder/museekly/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	QueueQueries Phase = iota
	LookupLyrics
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case QueueQueries:
		return "queue_queries"
	case LookupLyrics:
		return "lookup_lyrics"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func queuedUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueueQueries,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Looking up %d songs with %d workers...", total, workers),
	}
}

func lookupCompletedUpdate(step, total int, res QueryResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupLyrics,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, describe(res.Query)),
		Data:    res,
	}
}

func lookupFailedUpdate(step, total int, res QueryResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupLyrics,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, describe(res.Query), res.Message),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest %s...", path),
	}
}

func describe(q models.Query) string {
	return fmt.Sprintf("%s - %s", q.Artist, q.Title)
}
