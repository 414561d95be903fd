package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/findartist/internal/server"
	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// authorizer is the part of [services.SpotifyService] needed for the authorization code flow.
type authorizer interface {
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
}

// Auth performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization, and stores the exchanged tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify
	if !creds.HasCredentials() {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrMissingCredentials, r.configPath)
	}

	svc, err := services.NewSpotifyService(creds.Map(), services.WithMarket(r.config.Spotify.Market))
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token, err := r.doOAuth(ctx, svc, cmd.Duration("timeout"))
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlainln("%s", r.palette.OK("Authorization successful"))
	if r.configPath != "" {
		r.writePlain("%s\n", r.palette.OK("Tokens saved to "+r.configPath))
	}

	if err := svc.OAuthenticate(ctx, token); err != nil {
		return err
	}
	if user, err := svc.CurrentUser(ctx); err != nil {
		r.logger.Warn("could not fetch current user", "err", err)
	} else {
		r.writePlain("Logged in as %s (%s)\n", user.DisplayName, user.ID)
	}
	r.user = svc

	r.writePlain("\nYou can now use: findartist generate \"Radiohead\"\n")
	return nil
}

// callbackAddr returns the listen address for the OAuth callback.
//
// The port of the configured redirect URI wins over server.port so the two cannot drift apart.
func (r *Runner) callbackAddr() string {
	host, port := r.config.Server.Host, strconv.Itoa(r.config.Server.Port)
	if u, err := url.Parse(r.config.Credentials.Spotify.RedirectURI); err == nil && u.Port() != "" {
		port = u.Port()
	}
	return net.JoinHostPort(host, port)
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, a authorizer, timeout time.Duration) (*oauth2.Token, error) {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	handler := server.NewOAuthHandler(a.GetOAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(handler)

	srv, err := server.Listen(r.callbackAddr(), router, r.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()
	r.logger.Infof("waiting for OAuth callback at %v", srv.Addr())

	authURL := a.GetAuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("%s", r.palette.Warn("Could not open browser automatically."))
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return nil, fmt.Errorf("authorization failed: %w", result.Err)
		}
		if result.Token == nil {
			return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
		}
		return result.Token, nil
	case err := <-srv.Errors():
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
