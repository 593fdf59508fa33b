package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/museekly/internal/formatter"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/shared"
	"github.com/desertthunder/museekly/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Batch looks up every query in the --input CSV and writes one lyrics file per hit.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	workers := int(cmd.Int("workers"))
	if workers < 1 || workers > tasks.MaxWorkers {
		return fmt.Errorf("%w: --workers must be between 1 and %d", shared.ErrInvalidFlag, tasks.MaxWorkers)
	}
	rps := cmd.Float("rate")
	if rps <= 0 {
		return fmt.Errorf("%w: --rate must be positive", shared.ErrInvalidFlag)
	}

	input := cmd.String("input")
	queries, err := formatter.ReadQueriesFile(input)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("%w: %s contains no queries", shared.ErrInvalidInput, input)
	}

	lookup, err := r.lookup()
	if err != nil {
		return err
	}

	engine := tasks.NewBatchEngine(lookup, tasks.EngineOpts{
		Recorder: r.recorder(),
		Logger:   shared.WithLogger(r.logger, "component", "batch"),
		Source:   lookup.Name(),
	})

	r.logger.Info("batch requested", "input", input, "queries", len(queries), "workers", workers)
	r.writePlain("Input: %s (%d songs)\n\n", input, len(queries))

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, len(queries)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.QueueQueries:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.LookupLyrics:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh, queries, tasks.BatchOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: workers,
		RateLimit:  rps,
	})
	close(progressCh)
	<-done

	if err != nil {
		if result != nil {
			r.writePlain("\nStopped after %d of %d songs\n", len(result.Results), result.Total)
		}
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Batch Complete!")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	r.writePlain("Found: %d/%d\n", result.Succeeded, result.Total)

	if result.Failed > 0 {
		r.writePlainln("No lyrics for %d songs:", result.Failed)
		for _, res := range result.Results {
			if res.Status != search.Success {
				r.writePlain("  - %s - %s: %s\n", res.Query.Artist, res.Query.Title, res.Message)
			}
		}
	}

	return nil
}
