package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/museekly/internal/formatter"
	"github.com/desertthunder/museekly/internal/models"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recent searches, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openHistory()
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]models.SearchRecordJSON, 0, len(records))
		for _, rec := range records {
			out = append(out, rec.JSON())
		}
		return r.writeJSON(out, true)
	}

	if len(records) == 0 {
		return r.writePlain("No searches yet.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Search history (%d)", len(records)))
	for _, rec := range records {
		mark := "✓"
		if rec.Status() == models.SearchFailed {
			mark = "✗"
		}
		r.writePlain("%4d %s %s - %s", rec.Sequence(), mark, rec.Artist(), rec.Title())
		if msg := rec.Message(); msg != "" {
			r.writePlain(" (%s)", msg)
		}
		r.writePlain("  %s\n", rec.CreatedAt().Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// HistoryExport writes the full history to CSV.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openHistory()
	if err != nil {
		return err
	}

	records, err := repo.List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	path, err := formatter.WriteHistoryCSV(records, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported history", "count", len(records), "path", path)
	return r.writePlain("✓ Exported %d searches to %s\n", len(records), path)
}

// HistoryClear soft-deletes every search in the history.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openHistory()
	if err != nil {
		return err
	}

	n, err := repo.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return r.writePlain("✓ Cleared %d searches\n", n)
}
