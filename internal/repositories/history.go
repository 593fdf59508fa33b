package repositories

import (
	"context"

	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/search"
)

// HistoryRecorder stores applied search outcomes in a [SearchRepository].
type HistoryRecorder struct {
	repo *SearchRepository
}

// NewHistoryRecorder wraps repo as a [search.Recorder].
func NewHistoryRecorder(repo *SearchRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record persists Success and Failure results. Other states are ignored.
func (h *HistoryRecorder) Record(ctx context.Context, q models.Query, r search.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var record *models.SearchRecord
	switch r.Status() {
	case search.Success:
		record = models.NewSearchRecord(0, q, models.SearchSucceeded, "", r.Lyrics())
	case search.Failure:
		record = models.NewSearchRecord(0, q, models.SearchFailed, r.Message(), "")
	default:
		return nil
	}

	return h.repo.Create(record)
}

var _ search.Recorder = (*HistoryRecorder)(nil)
