package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
	"github.com/desertthunder/findartist/internal/tasks"
	"github.com/desertthunder/findartist/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	user       services.MusicService
	app        services.MusicService
	musicmap   tasks.Scraper
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette

	openBrowser func(string) error
	runProgram  func(context.Context, tea.Model) (tea.Model, error)

	// set by configure when the app handle still needs a client-credentials token
	appAuth func(context.Context) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	User       services.MusicService
	App        services.MusicService
	MusicMap   tasks.Scraper
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Palette    *ui.Palette
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
	if opts.Palette == nil {
		opts.Palette = ui.DefaultPalette
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		user:       opts.User,
		app:        opts.App,
		musicmap:   opts.MusicMap,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    opts.Palette,

		openBrowser: shared.OpenBrowser,
		runProgram:  runTUI,
	}
}

// SetLogger replaces the logger used by subsequently built components.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// configure loads the config file named by --config and builds the Spotify and music-map clients.
//
// Used as the root command's Before hook. Missing credentials are not an error here;
// commands that need a service report it themselves.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	r.configPath = cmd.String("config")
	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}
	r.config.ApplyEnv()

	mm := services.NewMusicMap(r.config.MusicMap.BaseURL, &http.Client{Timeout: r.config.MusicMapTimeout()})
	mm.SetUserAgent(r.config.MusicMap.UserAgent)
	r.musicmap = mm

	creds := r.config.Credentials.Spotify
	if !creds.HasCredentials() {
		r.logger.Debug("spotify credentials not configured")
		return ctx, nil
	}

	user, err := services.NewSpotifyService(creds.Map(), services.WithMarket(r.config.Spotify.Market))
	if err != nil {
		return ctx, err
	}
	user.SetTokenRefreshCallback(func(token *oauth2.Token) {
		if err := r.saveTokens(token); err != nil {
			r.logger.Warn("failed to persist refreshed token", "err", err)
		} else {
			r.logger.Debug("refreshed token saved", "path", r.configPath)
		}
	})
	if token := creds.Token(); token != nil {
		if err := user.OAuthenticate(ctx, token); err != nil {
			return ctx, err
		}
		r.user = user
	}

	app, err := services.NewSpotifyService(creds.Map(), services.WithMarket(r.config.Spotify.Market))
	if err != nil {
		return ctx, err
	}
	r.appAuth = func(ctx context.Context) error {
		if err := app.AuthenticateApp(ctx); err != nil {
			return err
		}
		r.app = app
		return nil
	}
	return ctx, nil
}

// readService returns the handle used for read-only calls, authenticating the app client on first use.
// It falls back to the user handle when client credentials are unavailable.
func (r *Runner) readService(ctx context.Context) (services.MusicService, error) {
	if r.app == nil && r.appAuth != nil {
		if err := r.appAuth(ctx); err != nil {
			r.logger.Warn("client credentials login failed, using user token for reads", "err", err)
		}
		r.appAuth = nil
	}

	if r.app != nil {
		return r.app, nil
	}
	if r.user != nil {
		return r.user, nil
	}
	return nil, fmt.Errorf("%w: set credentials.spotify in %s or SPOTIFY_ID/SPOTIFY_SECRET", shared.ErrMissingCredentials, r.configPath)
}

// userService returns the authorized user handle.
func (r *Runner) userService() (services.MusicService, error) {
	if r.user != nil {
		return r.user, nil
	}
	if !r.config.Credentials.Spotify.HasCredentials() {
		return nil, fmt.Errorf("%w: set credentials.spotify in %s or SPOTIFY_ID/SPOTIFY_SECRET", shared.ErrMissingCredentials, r.configPath)
	}
	return nil, fmt.Errorf("%w: run 'findartist auth' first", shared.ErrNotAuthenticated)
}

func (r *Runner) generator(ctx context.Context) (*tasks.Generator, error) {
	user, err := r.userService()
	if err != nil {
		return nil, err
	}
	app, err := r.readService(ctx)
	if err != nil {
		return nil, err
	}

	return tasks.NewGenerator(tasks.GeneratorOpts{
		User:     user,
		App:      app,
		MusicMap: r.musicmap,
		Logger:   r.logger,
		Playlist: tasks.PlaylistOpts{
			Description: r.config.Playlist.Description,
			Public:      r.config.Playlist.Public,
			Rollback:    r.config.Playlist.Rollback,
		},
	}), nil
}

// saveTokens stores token in the in-memory config and, when a config path is known, on disk.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, artistCommand, similarCommand, generateCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
	r.writePlain("%v\n", r.palette.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
