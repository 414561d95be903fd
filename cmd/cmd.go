// submodule cmd contains command definitions
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
)

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
			Sources: cli.EnvVars("FINDARTIST_CONFIG"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "musicmap",
			Aliases: []string{"m"},
			Usage:   "Find similar artists on music-map.com instead of Spotify's related artists",
		},
		&cli.BoolFlag{
			Name:  "skip-seed",
			Usage: "Leave the searched artist out of the playlist",
		},
	}
}

func pipelineFlags() []cli.Flag {
	return append(sourceFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, markdown, csv, json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Also write the result to this file",
		},
	)
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from the bundled template",
		Action: r.Setup,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in to Spotify using OAuth2 and save the tokens",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the browser callback",
				Value: 2 * time.Minute,
			},
		},
		Action: r.Auth,
	}
}

func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Look up an artist by name, URI or open.spotify.com URL",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Artist,
	}
}

func similarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "similar",
		Usage: "List similar artists and their top tracks without creating a playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags:  pipelineFlags(),
		Action: r.Similar,
	}
}

func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Create a playlist from the top tracks of similar artists",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags:  pipelineFlags(),
		Action: r.Generate,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse similar artists interactively before creating the playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: append(sourceFlags(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is running",
				Value: filepath.Join(os.TempDir(), "findartist-tui.log"),
			},
		),
		Action: r.TUI,
	}
}
