package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/museekly/internal/formatter"
	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 3
	MaxWorkers       = 10
	DefaultRateLimit = 2.0
)

// BatchOpts contains configuration for a batch lookup.
type BatchOpts struct {
	Format     formatter.Format // Lyrics file format (default: text)
	OutputDir  string           // Output directory (default: lyrics_batch_{epoch})
	NumWorkers int              // Concurrent workers (default: 3, max: 10)
	RateLimit  float64          // Lookups per second across all workers (default: 2)
}

// QueryResult is the outcome of one query in a batch.
type QueryResult struct {
	Index   int           // Position in the input
	Query   models.Query  // Query as given
	Status  search.Status // Success or Failure
	Message string        // Failure message shown to the user
	File    string        // Written lyrics file on success
}

// BatchResult contains the outcome of a whole batch.
type BatchResult struct {
	Total           int
	Succeeded       int
	Failed          int
	OutputDirectory string
	ManifestPath    string
	Results         []QueryResult // In input order
}

// EngineOpts configures a [BatchEngine].
type EngineOpts struct {
	Recorder search.Recorder // Optional history recorder
	Logger   *log.Logger
	Source   string // Provider name written to JSON output and the manifest
}

// BatchEngine looks up many songs concurrently.
type BatchEngine struct {
	lookup   search.Lookup
	recorder search.Recorder
	logger   *log.Logger
	source   string
}

type batchJob struct {
	index int
	query models.Query
}

// NewBatchEngine creates a new BatchEngine with the provided lookup.
func NewBatchEngine(lookup search.Lookup, opts EngineOpts) *BatchEngine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BatchEngine{lookup: lookup, recorder: opts.Recorder, logger: logger, source: opts.Source}
}

// Run looks up every query and writes lyrics files plus a manifest into opts.OutputDir.
//
// Lookup failures are recorded per query. The returned error is non-nil only for setup failures, cancellation
// (with the partial result), or a manifest write failure (with the full result).
func (e *BatchEngine) Run(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	queries []models.Query,
	opts BatchOpts,
) (*BatchResult, error) {
	if e.lookup == nil {
		return nil, fmt.Errorf("%w: lyrics service not initialized", shared.ErrServiceUnavailable)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no queries to look up", shared.ErrInvalidInput)
	}

	opts = withDefaults(opts)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BatchResult{
		Total:           len(queries),
		OutputDirectory: opts.OutputDir,
		Results:         make([]QueryResult, 0, len(queries)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan batchJob)
	results := make(chan QueryResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i, q := range queries {
			select {
			case jobs <- batchJob{index: i, query: q}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range opts.NumWorkers {
		g.Go(func() error {
			for job := range jobs {
				res, err := e.lookupOne(gctx, limiter, job, opts)
				if err != nil {
					return err
				}
				results <- res
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(results)
	}()

	sendProgress(prog, queuedUpdate(len(queries), opts.NumWorkers))

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Status == search.Success {
			result.Succeeded++
			sendProgress(prog, lookupCompletedUpdate(completed, len(queries), res))
		} else {
			result.Failed++
			sendProgress(prog, lookupFailedUpdate(completed, len(queries), res))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Index < result.Results[j].Index
	})

	if err := <-done; err != nil {
		e.logger.Warn("batch interrupted", "completed", completed, "total", len(queries), "error", err)
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	sendProgress(prog, manifestUpdate(manifestPath))
	if err := WriteBatchManifest(result, string(opts.Format), e.source, manifestPath); err != nil {
		return result, fmt.Errorf("batch completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("batch finished", "succeeded", result.Succeeded, "failed", result.Failed, "dir", opts.OutputDir)
	return result, nil
}

// lookupOne drives a fresh controller through one submit. Only cancellation is returned as an error.
//
// History is recorded once the lyrics file is written, so a failed write is recorded as a failure.
func (e *BatchEngine) lookupOne(ctx context.Context, limiter *rate.Limiter, job batchJob, opts BatchOpts) (QueryResult, error) {
	res := QueryResult{Index: job.index, Query: job.query}

	c := search.NewController(e.lookup, search.Options{Logger: e.logger})
	c.SetField(search.FieldArtist, job.query.Artist)
	c.SetField(search.FieldTitle, job.query.Title)

	req, err := c.Begin()
	if err != nil {
		res.Status = search.Failure
		res.Message = c.Result().Message()
		return res, nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return res, err
	}

	lyrics, ferr := c.Fetch(ctx, req)
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	c.Complete(ctx, req, lyrics, ferr)

	outcome := c.Result()
	res.Status = outcome.Status()
	if outcome.Status() != search.Success {
		res.Message = outcome.Message()
		e.record(ctx, job.query, outcome)
		return res, nil
	}

	song, _ := outcome.Song()
	name := fmt.Sprintf("%03d_%s", job.index+1, formatter.LyricsFilename(song, opts.Format))
	path, err := formatter.WriteLyrics(opts.Format, song, outcome.Lyrics(), e.source, filepath.Join(opts.OutputDir, name))
	if err != nil {
		res.Status = search.Failure
		res.Message = err.Error()
		e.record(ctx, job.query, search.FailureResult(res.Message))
		return res, nil
	}

	res.File = path
	e.record(ctx, job.query, outcome)
	return res, nil
}

func (e *BatchEngine) record(ctx context.Context, q models.Query, result search.Result) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, q, result); err != nil {
		e.logger.Warn("failed to record search", "error", err)
	}
}

func withDefaults(opts BatchOpts) BatchOpts {
	if opts.Format == "" {
		opts.Format = formatter.FormatText
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("lyrics_batch_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	return opts
}
