package main

import (
	"context"
	"os"

	"github.com/desertthunder/findartist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the example configuration to --config unless a file already exists there.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil {
		r.logger.Info("config file already exists", "path", path)
		config, err := shared.LoadConfig(path)
		if err != nil {
			return err
		}
		config.ApplyEnv()
		if err := config.Validate(); err != nil {
			r.writePlain("%s\n", r.palette.Warn(err.Error()))
			return nil
		}
		return r.writePlain("%s\n", r.palette.OK("Configuration at "+path+" looks good"))
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("%s\n", r.palette.OK("Created "+path))
	r.writePlainln("Next steps:")
	r.writePlain("1. Create an app at https://developer.spotify.com/dashboard\n")
	r.writePlain("2. Add %s as a redirect URI\n", r.config.Credentials.Spotify.RedirectURI)
	r.writePlain("3. Fill in credentials.spotify.client_id and client_secret (or set SPOTIFY_ID/SPOTIFY_SECRET)\n")
	r.writePlain("4. Run 'findartist auth'\n")
	return nil
}
