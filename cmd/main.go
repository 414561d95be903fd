package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/desertthunder/findartist/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "err", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "findartist",
		Usage:    "Build Spotify playlists from artists similar to the one you like",
		Version:  "0.1.0",
		Flags:    rootFlags(),
		Before:   runner.configure,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(failureMessage(err), "err", err)
	}
}
