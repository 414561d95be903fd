package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/findartist/internal/formatter"
	"github.com/desertthunder/findartist/internal/shared"
	"github.com/desertthunder/findartist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// pipelineErrors are reported to the user by their message alone.
var pipelineErrors = []error{shared.ErrArtistNotFound, shared.ErrNoSimilarTracks, shared.ErrPlaylistCreation}

// failureMessage returns the user-facing text for err.
func failureMessage(err error) string {
	for _, target := range pipelineErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

// Artist resolves a single artist and prints it.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: artist name or URI is required", shared.ErrMissingArgument)
	}

	svc, err := r.readService(ctx)
	if err != nil {
		return err
	}

	artist, err := tasks.NewArtistResolver(svc, r.logger).ResolveReference(ctx, query)
	if err != nil {
		r.writePlain("%s\n", r.palette.Err(failureMessage(err)))
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, true)
	}

	r.writePlain("%s\n", r.palette.Title(artist.Name))
	r.writePlain("URI: %s\n", artist.URI)
	if len(artist.Genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(artist.Genres, ", "))
	}
	return nil
}

// Similar lists similar artists and their top tracks without touching the user's library.
func (r *Runner) Similar(ctx context.Context, cmd *cli.Command) error {
	return r.runPipeline(ctx, cmd, false)
}

// Generate runs the full pipeline and creates the playlist.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	return r.runPipeline(ctx, cmd, true)
}

func (r *Runner) runPipeline(ctx context.Context, cmd *cli.Command, create bool) error {
	opts := tasks.GenerateOpts{
		Query:       strings.TrimSpace(cmd.StringArg("query")),
		UseMusicMap: cmd.Bool("musicmap"),
		SkipSeed:    cmd.Bool("skip-seed"),
	}
	if opts.Query == "" {
		return fmt.Errorf("%w: artist name or URI is required", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	g, err := r.generator(ctx)
	if err != nil {
		return err
	}

	r.logger.Debug("starting pipeline", "query", opts.Query, "musicmap", opts.UseMusicMap, "create", create)

	var progress chan tasks.ProgressUpdate
	done := make(chan struct{})
	if format == formatter.Text {
		progress = make(chan tasks.ProgressUpdate, 50)
		go func() {
			defer close(done)
			r.printProgress(progress)
		}()
	} else {
		close(done)
	}

	var result *tasks.Result
	if create {
		result, err = g.Generate(ctx, opts, progress)
	} else {
		result, err = g.Collect(ctx, opts, progress)
	}
	if progress != nil {
		close(progress)
	}
	<-done

	if err != nil {
		r.writePlain("%s\n", r.palette.Err(failureMessage(err)))
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(result, format, path); err != nil {
			return err
		}
		r.logger.Info("result written", "path", path)
	}

	if format == formatter.Text {
		title := "Similar artists"
		if result.Playlist != nil {
			title = "Playlist created"
		}
		r.writePlainln("")
		r.writePlainHeader(title)
	}

	data, err := formatter.Render(result, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate) {
	for update := range progress {
		switch update.Phase {
		case tasks.ResolveSeed, tasks.FetchSimilar:
			r.writePlain("🔍 %s\n", update.Message)
		case tasks.FetchTracks:
			r.writePlain("   %s\n", update.Message)
		case tasks.CreatePlaylist, tasks.AddTracks:
			r.writePlain("📝 %s\n", update.Message)
		}
	}
}
