package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/desertthunder/museekly/internal/formatter"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/shared"
	"github.com/urfave/cli/v3"
)

// errSearchFailed carries the Failure message of a one-shot search as the command error.
var errSearchFailed = errors.New("search failed")

// Search looks up one song and prints or writes the lyrics.
//
// Missing arguments are prompted for.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	artist := cmd.StringArg("artist")
	title := cmd.StringArg("title")
	if artist == "" || title == "" {
		if artist, title, err = promptQuery(ctx, artist, title); err != nil {
			return err
		}
	}

	lookup, err := r.lookup()
	if err != nil {
		return err
	}

	controller := search.NewController(lookup, search.Options{
		Recorder: r.recorder(),
		Logger:   r.logger,
	})
	controller.SetField(search.FieldArtist, artist)
	controller.SetField(search.FieldTitle, title)

	result, err := controller.Submit(ctx)
	if err != nil {
		return err
	}
	if result.Status() != search.Success {
		return fmt.Errorf("%w: %s", errSearchFailed, result.Message())
	}

	song, _ := result.Song()
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteLyrics(format, song, result.Lyrics(), lookup.Name(), path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Lyrics saved to %s\n", written)
	}

	data, err := formatter.RenderLyrics(format, song, result.Lyrics(), lookup.Name())
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if format == formatter.FormatJSON {
		return r.writePlain("\n")
	}
	return nil
}

// promptQuery asks for the fields not given on the command line.
func promptQuery(ctx context.Context, artist, title string) (string, string, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Artist").
				Placeholder("e.g. Queen").
				Value(&artist),
			huh.NewInput().
				Title("Title").
				Placeholder("e.g. Bohemian Rhapsody").
				Value(&title),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", "", fmt.Errorf("%w: search cancelled", shared.ErrMissingArgument)
		}
		return "", "", fmt.Errorf("failed to read artist and title: %w", err)
	}
	return artist, title, nil
}
