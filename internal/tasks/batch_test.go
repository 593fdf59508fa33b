package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/museekly/internal/formatter"
	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/shared"
	th "github.com/desertthunder/museekly/internal/testing"
)

type countingRecorder struct {
	mu       sync.Mutex
	n        int
	statuses map[string]search.Status
}

func (c *countingRecorder) Record(_ context.Context, q models.Query, r search.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	if c.statuses == nil {
		c.statuses = make(map[string]search.Status)
	}
	c.statuses[q.Artist+"|"+q.Title] = r.Status()
	return nil
}

func newLookup() *th.MockLookup {
	return &th.MockLookup{
		Lyrics: map[string]string{
			"Queen|Bohemian Rhapsody": "Is this the real life?",
			"ABBA|Waterloo":           "My my, at Waterloo Napoleon did surrender",
		},
		Err: errors.New("No lyrics found. Please check spelling or try another song."),
	}
}

func TestBatchEngine_Run(t *testing.T) {
	queries := []models.Query{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "Nobody", Title: "Nothing"},
		{Artist: "ABBA", Title: "Waterloo"},
		{Artist: "Queen", Title: ""},
	}

	tests := []struct {
		name   string
		format formatter.Format
		ext    string
	}{
		{name: "text files", format: formatter.FormatText, ext: ".txt"},
		{name: "markdown files", format: formatter.FormatMarkdown, ext: ".md"},
		{name: "json files", format: formatter.FormatJSON, ext: ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			lookup := newLookup()
			engine := NewBatchEngine(lookup, EngineOpts{Source: "mock"})

			result, err := engine.Run(context.Background(), nil, queries, BatchOpts{
				Format:     tt.format,
				OutputDir:  dir,
				NumWorkers: 2,
				RateLimit:  1000,
			})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if result.Total != 4 || result.Succeeded != 2 || result.Failed != 2 {
				t.Errorf("unexpected counts: total=%d succeeded=%d failed=%d", result.Total, result.Succeeded, result.Failed)
			}

			for i, res := range result.Results {
				if res.Index != i || res.Query != queries[i] {
					t.Errorf("result %d out of order: %+v", i, res)
				}
			}

			if !strings.HasSuffix(result.Results[0].File, tt.ext) {
				t.Errorf("expected %s file, got %q", tt.ext, result.Results[0].File)
			}
			th.AssertFileExists(t, result.Results[0].File)
			th.AssertFileExists(t, result.Results[2].File)

			if result.Results[1].Message != "No lyrics found. Please check spelling or try another song." {
				t.Errorf("unexpected failure message %q", result.Results[1].Message)
			}
			if result.Results[3].Message != search.ValidationMessage {
				t.Errorf("expected validation message, got %q", result.Results[3].Message)
			}
			if result.Results[1].File != "" {
				t.Error("failed lookups should not write files")
			}

			if calls := len(lookup.Calls()); calls != 3 {
				t.Errorf("expected 3 lookups (invalid row skipped), got %d", calls)
			}
		})
	}
}

func TestBatchEngine_Manifest(t *testing.T) {
	dir := t.TempDir()
	engine := NewBatchEngine(newLookup(), EngineOpts{Source: "Lyrics.ovh"})

	result, err := engine.Run(context.Background(), nil, []models.Query{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "Nobody", Title: "Nothing"},
	}, BatchOpts{OutputDir: dir, RateLimit: 1000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ManifestPath != filepath.Join(dir, ManifestFile) {
		t.Errorf("unexpected manifest path %q", result.ManifestPath)
	}

	var manifest BatchManifest
	if err := json.Unmarshal([]byte(th.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
		t.Fatalf("invalid manifest JSON: %v", err)
	}

	if manifest.Total != 2 || manifest.Succeeded != 1 || manifest.Failed != 1 {
		t.Errorf("unexpected manifest counts: %+v", manifest)
	}
	if manifest.Format != "text" || manifest.Source != "Lyrics.ovh" {
		t.Errorf("unexpected manifest header: format=%q source=%q", manifest.Format, manifest.Source)
	}
	if len(manifest.Results) != 2 {
		t.Fatalf("expected 2 manifest entries, got %d", len(manifest.Results))
	}
	if manifest.Results[0].Status != "success" || manifest.Results[0].File == "" {
		t.Errorf("unexpected first entry: %+v", manifest.Results[0])
	}
	if manifest.Results[1].Status != "failure" || manifest.Results[1].Message == "" {
		t.Errorf("unexpected second entry: %+v", manifest.Results[1])
	}
}

func TestBatchEngine_Progress(t *testing.T) {
	progress := make(chan ProgressUpdate, 32)
	engine := NewBatchEngine(newLookup(), EngineOpts{})

	_, err := engine.Run(context.Background(), progress, []models.Query{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "Nobody", Title: "Nothing"},
	}, BatchOpts{OutputDir: t.TempDir(), RateLimit: 1000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	close(progress)

	phases := map[Phase]int{}
	var messages []string
	for u := range progress {
		phases[u.Phase]++
		messages = append(messages, u.Message)
	}

	if phases[QueueQueries] != 1 || phases[LookupLyrics] != 2 || phases[WriteManifest] != 1 {
		t.Errorf("unexpected phases: %v", phases)
	}

	joined := strings.Join(messages, "\n")
	if !strings.Contains(joined, "✓ Queen - Bohemian Rhapsody") {
		t.Errorf("missing success update in %q", joined)
	}
	if !strings.Contains(joined, "✗ Nobody - Nothing: No lyrics found") {
		t.Errorf("missing failure update in %q", joined)
	}
}

func TestBatchEngine_RateLimit(t *testing.T) {
	engine := NewBatchEngine(newLookup(), EngineOpts{})
	queries := []models.Query{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "ABBA", Title: "Waterloo"},
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
	}

	start := time.Now()
	_, err := engine.Run(context.Background(), nil, queries, BatchOpts{
		OutputDir:  t.TempDir(),
		NumWorkers: 3,
		RateLimit:  20,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected rate limiting to space out 3 lookups at 20/s, took %v", elapsed)
	}
}

func TestBatchEngine_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	engine := NewBatchEngine(newLookup(), EngineOpts{Recorder: rec})

	_, err := engine.Run(context.Background(), nil, []models.Query{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "Nobody", Title: "Nothing"},
		{Artist: "", Title: "Nothing"},
	}, BatchOpts{OutputDir: t.TempDir(), RateLimit: 1000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rec.n != 2 {
		t.Errorf("expected 2 recorded lookups, got %d", rec.n)
	}
}

func TestBatchEngine_RecorderMatchesManifest(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "001_queen_bohemian-rhapsody.txt")
	if err := os.Mkdir(blocked, 0755); err != nil {
		t.Fatal(err)
	}

	rec := &countingRecorder{}
	engine := NewBatchEngine(newLookup(), EngineOpts{Recorder: rec})

	result, err := engine.Run(context.Background(), nil, []models.Query{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "ABBA", Title: "Waterloo"},
	}, BatchOpts{Format: formatter.FormatText, OutputDir: dir, RateLimit: 1000})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %d and %d", result.Succeeded, result.Failed)
	}
	if got := result.Results[0].Status; got != search.Failure {
		t.Errorf("expected the blocked write to fail, got %v", got)
	}

	for _, res := range result.Results {
		key := res.Query.Artist + "|" + res.Query.Title
		if got := rec.statuses[key]; got != res.Status {
			t.Errorf("%s: history recorded %v but the batch reported %v", key, got, res.Status)
		}
	}
}

func TestBatchEngine_Errors(t *testing.T) {
	t.Run("nil lookup", func(t *testing.T) {
		engine := NewBatchEngine(nil, EngineOpts{})
		_, err := engine.Run(context.Background(), nil, []models.Query{{Artist: "a", Title: "b"}}, BatchOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("no queries", func(t *testing.T) {
		engine := NewBatchEngine(newLookup(), EngineOpts{})
		_, err := engine.Run(context.Background(), nil, nil, BatchOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("output directory below a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		engine := NewBatchEngine(newLookup(), EngineOpts{})
		_, err := engine.Run(context.Background(), nil, []models.Query{{Artist: "a", Title: "b"}}, BatchOpts{OutputDir: filepath.Join(file, "out")})
		if err == nil {
			t.Error("expected error creating output directory")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dir := t.TempDir()
		engine := NewBatchEngine(newLookup(), EngineOpts{})
		result, err := engine.Run(ctx, nil, []models.Query{
			{Artist: "Queen", Title: "Bohemian Rhapsody"},
			{Artist: "ABBA", Title: "Waterloo"},
		}, BatchOpts{OutputDir: dir, RateLimit: 1000})

		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil {
			t.Fatal("expected partial result")
		}
		if _, statErr := os.Stat(filepath.Join(dir, ManifestFile)); !os.IsNotExist(statErr) {
			t.Error("manifest should not be written for an interrupted batch")
		}
	})
}

func TestWithDefaults(t *testing.T) {
	opts := withDefaults(BatchOpts{})
	if opts.Format != formatter.FormatText || opts.NumWorkers != DefaultWorkers || opts.RateLimit != DefaultRateLimit {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if !strings.HasPrefix(opts.OutputDir, "lyrics_batch_") {
		t.Errorf("unexpected default output dir %q", opts.OutputDir)
	}

	if got := withDefaults(BatchOpts{NumWorkers: 50}).NumWorkers; got != MaxWorkers {
		t.Errorf("expected workers capped at %d, got %d", MaxWorkers, got)
	}
}

func TestPhaseString(t *testing.T) {
	if LookupLyrics.String() != "lookup_lyrics" || Phase(99).String() != "" {
		t.Error("unexpected phase names")
	}
}
