package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/shared"
)

// ValidationMessage is shown when either field is empty.
const ValidationMessage = "Please enter both artist and song title"

// Field names one of the two form inputs.
type Field int

const (
	FieldArtist Field = iota
	FieldTitle
)

func (f Field) String() string {
	if f == FieldTitle {
		return "title"
	}
	return "artist"
}

// ParseField maps a form field name ("artist" or "title") to a [Field].
func ParseField(name string) (Field, error) {
	switch name {
	case "artist":
		return FieldArtist, nil
	case "title":
		return FieldTitle, nil
	default:
		return 0, fmt.Errorf("%w: unknown field %q", shared.ErrInvalidInput, name)
	}
}

// Lookup is the lyrics provider the controller calls. services.LyricsService satisfies it.
type Lookup interface {
	FetchLyrics(ctx context.Context, artist, title string) (string, error)
}

// Recorder receives every outcome the controller applies.
type Recorder interface {
	Record(ctx context.Context, q models.Query, r Result) error
}

// Request is the token issued by [Controller.Begin] for one lookup.
type Request struct {
	Seq   uint64
	Query models.Query
}

// Options configures a [Controller].
type Options struct {
	Recorder Recorder    // optional
	Logger   *log.Logger // defaults to a discard-level logger
}

// Controller owns one search form: its query, its result, and the request sequence.
type Controller struct {
	mu       sync.Mutex
	query    models.Query
	result   Result
	seq      uint64
	lookup   Lookup
	recorder Recorder
	logger   *log.Logger
}

// NewController creates an idle controller with an empty query.
func NewController(lookup Lookup, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Controller{
		result:   IdleResult(),
		lookup:   lookup,
		recorder: opts.Recorder,
		logger:   logger,
	}
}

// SetField updates one query field. It never validates and never touches the result.
func (c *Controller) SetField(field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldArtist:
		c.query.Artist = value
	case FieldTitle:
		c.query.Title = value
	}
}

// Query returns the current query.
func (c *Controller) Query() models.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Result returns the current result.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Begin starts a submit.
//
// It returns [shared.ErrBusy] without changing anything while a lookup is in flight.
// An empty or whitespace-only field moves the controller to Failure with [ValidationMessage] and returns an
// error wrapping [shared.ErrValidation]; no request is issued.
// Otherwise the controller enters Loading and the returned [Request] must be passed to [Controller.Complete].
func (c *Controller) Begin() (Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result.Status() == Loading {
		return Request{}, shared.ErrBusy
	}

	if shared.IsBlank(c.query.Artist) || shared.IsBlank(c.query.Title) {
		c.result = FailureResult(ValidationMessage)
		c.logger.Debug("rejected search", "artist", c.query.Artist, "title", c.query.Title)
		return Request{}, fmt.Errorf("%w: %s", shared.ErrValidation, ValidationMessage)
	}

	c.seq++
	c.result = LoadingResult()
	req := Request{Seq: c.seq, Query: c.query}
	c.logger.Debug("search started", "seq", req.Seq, "artist", req.Query.Artist, "title", req.Query.Title)
	return req, nil
}

// Fetch performs the lookup for req. It does not touch controller state.
func (c *Controller) Fetch(ctx context.Context, req Request) (string, error) {
	if c.lookup == nil {
		return "", fmt.Errorf("%w: no lyrics service configured", shared.ErrServiceUnavailable)
	}
	return c.lookup.FetchLyrics(ctx, req.Query.Artist, req.Query.Title)
}

// Complete applies the outcome of req and reports whether it was applied.
//
// Outcomes for any request other than the latest one, or arriving when the controller is no longer Loading,
// are discarded.
func (c *Controller) Complete(ctx context.Context, req Request, lyrics string, err error) bool {
	c.mu.Lock()
	if req.Seq == 0 || req.Seq != c.seq || c.result.Status() != Loading {
		c.mu.Unlock()
		c.logger.Debug("discarded stale result", "seq", req.Seq, "latest", c.seq)
		return false
	}

	var result Result
	if err != nil {
		result = FailureResult(err.Error())
	} else {
		result = SuccessResult(req.Query.Ref(), lyrics)
	}
	c.result = result
	c.mu.Unlock()

	if err != nil {
		c.logger.Info("search failed", "artist", req.Query.Artist, "title", req.Query.Title, "error", err)
	} else {
		c.logger.Info("search succeeded", "artist", req.Query.Artist, "title", req.Query.Title, "bytes", len(lyrics))
	}

	if c.recorder != nil {
		if rerr := c.recorder.Record(ctx, req.Query, result); rerr != nil {
			c.logger.Warn("failed to record search", "error", rerr)
		}
	}
	return true
}

// Submit runs Begin, Fetch and Complete and returns the resulting state.
//
// The error is [shared.ErrBusy] when a lookup is already in flight, a validation error, or nil; lookup
// failures are reported through the Failure result, not the error.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	req, err := c.Begin()
	if err != nil {
		return c.Result(), err
	}

	lyrics, ferr := c.Fetch(ctx, req)
	c.Complete(ctx, req, lyrics, ferr)
	return c.Result(), nil
}

// IsBusy reports whether err is the refusal returned while a lookup is in flight.
func IsBusy(err error) bool {
	return errors.Is(err, shared.ErrBusy)
}
