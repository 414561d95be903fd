package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/findartist/internal/shared"
	"github.com/desertthunder/findartist/internal/tasks"
	"github.com/desertthunder/findartist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI: collect, review, confirm, then create the playlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.GenerateOpts{
		Query:       strings.TrimSpace(cmd.StringArg("query")),
		UseMusicMap: cmd.Bool("musicmap"),
		SkipSeed:    cmd.Bool("skip-seed"),
	}
	if opts.Query == "" {
		return fmt.Errorf("%w: artist name or URI is required", shared.ErrMissingArgument)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer closer.Close()
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	g, err := r.generator(ctx)
	if err != nil {
		return err
	}

	final, err := r.runProgram(ctx, ui.NewModel(ctx, g, opts, r.palette))
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if m, ok := final.(*ui.Model); ok {
		if result, err := m.Outcome(); err == nil && result != nil && result.Playlist != nil {
			r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Playlist created: %s (%s)", result.Playlist.Name, result.Playlist.URI)))
		}
	}
	return nil
}

func runTUI(ctx context.Context, model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
}
