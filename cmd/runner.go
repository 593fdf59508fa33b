package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/museekly/internal/repositories"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/services"
	"github.com/desertthunder/museekly/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	lyrics     services.LyricsService
	history    *repositories.SearchRepository
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Lyrics     services.LyricsService
	History    *repositories.SearchRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		lyrics:     opts.Lyrics,
		history:    opts.History,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tuiCommand, serveCommand, searchCommand, batchCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config, applies the log level and builds the lyrics service.
//
// A missing config file keeps the current configuration.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, fmt.Errorf("%w: %s: %w", shared.ErrInvalidConfig, path, err)
		}
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	} else {
		shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	}

	if r.lyrics == nil {
		svc := services.NewLyricsOVHService(r.config.Lyrics.BaseURL, r.httpClient)
		svc.SetRateLimit(r.config.Lyrics.RateLimit)
		r.lyrics = svc
	}

	return ctx, nil
}

// SetLogger replaces the logger used by the runner and the components it builds.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the history database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.history = nil
	return err
}

// openHistory returns the history repository, opening the database on first use.
//
// History is disabled when database.path is empty.
func (r *Runner) openHistory() (*repositories.SearchRepository, error) {
	if r.history != nil {
		return r.history, nil
	}
	if r.config.Database.Path == "" {
		return nil, fmt.Errorf("%w: history is disabled (database.path is empty)", shared.ErrMissingConfig)
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	r.db = db
	r.history = repositories.NewSearchRepository(db)
	return r.history, nil
}

// recorder returns a history recorder, or nil when history is unavailable.
func (r *Runner) recorder() search.Recorder {
	repo, err := r.openHistory()
	if err != nil {
		r.logger.Warn("running without search history", "error", err)
		return nil
	}
	return repositories.NewHistoryRecorder(repo)
}

// lookup returns the lyrics service or an error when none is configured.
func (r *Runner) lookup() (services.LyricsService, error) {
	if r.lyrics == nil {
		return nil, fmt.Errorf("%w: lyrics service not initialized", shared.ErrServiceUnavailable)
	}
	return r.lyrics, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
