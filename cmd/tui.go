package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/museekly/internal/search"
	"github.com/desertthunder/museekly/internal/shared"
	"github.com/desertthunder/museekly/internal/ui"
	"github.com/urfave/cli/v3"
)

// DefaultTUILog is used when log.file is not configured.
const DefaultTUILog = "./tmp/museekly-tui.log"

// TUI launches the interactive terminal search form.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	lookup, err := r.lookup()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	path := r.config.Log.File
	if path == "" {
		path = DefaultTUILog
	}
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	controller := search.NewController(lookup, search.Options{
		Recorder: r.recorder(),
		Logger:   shared.WithLogger(fileLogger, "component", "tui"),
	})

	model := ui.NewModel(ctx, controller, lookup.Name())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
