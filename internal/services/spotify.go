// Spotify implementation of [MusicService]
//
// Wraps the [spotify.Client] from github.com/zmb3/spotify/v2. A SpotifyService is either user-scoped
// (authorization code flow, owns playlists) or app-scoped (client credentials, read-only calls).
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/findartist/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// ArtistURIPrefix marks a canonical Spotify artist reference.
	ArtistURIPrefix = "spotify:artist:"

	artistURLPrefix     = "open.spotify.com/artist/"
	defaultRedirectURI  = "http://127.0.0.1:8080/callback"
	defaultMarket       = "US"
	maxTracksPerRequest = 100
)

// SpotifyService implements [MusicService] for the Spotify Web API.
type SpotifyService struct {
	config         *oauth2.Config
	client         *spotify.Client
	clientOpts     []spotify.ClientOption
	market         string
	onTokenRefresh func(*oauth2.Token)
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithMarket sets the market (ISO 3166-1 alpha-2) used for top-track lookups.
func WithMarket(market string) SpotifyOption {
	return func(s *SpotifyService) {
		if market != "" {
			s.market = market
		}
	}
}

// WithBaseURL points the API client at a different base URL.
func WithBaseURL(baseURL string) SpotifyOption {
	return func(s *SpotifyService) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		s.clientOpts = append(s.clientOpts, spotify.WithBaseURL(baseURL))
	}
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				spotifyauth.ScopeUserReadPrivate,
				spotifyauth.ScopePlaylistModifyPublic,
				spotifyauth.ScopePlaylistModifyPrivate,
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		market: defaultMarket,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSpotifyServiceWithClient creates a service around an already authorized [http.Client].
func NewSpotifyServiceWithClient(httpClient *http.Client, opts ...SpotifyOption) *SpotifyService {
	s := &SpotifyService{market: defaultMarket}
	for _, opt := range opts {
		opt(s)
	}
	s.client = spotify.New(httpClient, s.clientOpts...)
	return s
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig returns the OAuth2 configuration used for the authorization code flow.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers fn to be called whenever the user token is refreshed.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticate authorizes the service as a user. Expects either an "access_token" (with optional
// "refresh_token") or an "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		return s.OAuthenticate(ctx, &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		})
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// OAuthenticate authorizes the service with an existing user token. Expired tokens are refreshed on use.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrNotAuthenticated)
	}

	src := &refreshableTokenSource{
		base:     s.config.TokenSource(ctx, token),
		last:     token.AccessToken,
		onChange: s.onTokenRefresh,
	}
	s.client = spotify.New(oauth2.NewClient(ctx, src), s.clientOpts...)
	return nil
}

// AuthenticateApp authorizes the service with the client credentials flow.
//
// App-scoped clients have their own rate limit but cannot read the current user or own playlists.
func (s *SpotifyService) AuthenticateApp(ctx context.Context) error {
	cc := &clientcredentials.Config{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		TokenURL:     s.config.Endpoint.TokenURL,
	}
	src := cc.TokenSource(ctx)
	if _, err := src.Token(); err != nil {
		return fmt.Errorf("%w: client credentials: %v", shared.ErrAuthFailed, err)
	}
	s.client = spotify.New(oauth2.NewClient(ctx, src), s.clientOpts...)
	return nil
}

func (s *SpotifyService) api() (*spotify.Client, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	return s.client, nil
}

// SearchArtist searches for artists by name.
func (s *SpotifyService) SearchArtist(ctx context.Context, query string, limit int) ([]Artist, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1
	}

	res, err := c.Search(ctx, query, spotify.SearchTypeArtist, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", shared.ErrAPIRequest, query, err)
	}
	if res.Artists == nil {
		return nil, nil
	}

	artists := make([]Artist, 0, len(res.Artists.Artists))
	for _, a := range res.Artists.Artists {
		artists = append(artists, artistFromFull(a))
	}
	return artists, nil
}

// Artist retrieves an artist by ID, URI or open.spotify.com URL.
func (s *SpotifyService) Artist(ctx context.Context, id string) (*Artist, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	full, err := c.GetArtist(ctx, spotify.ID(ParseID(id)))
	if err != nil {
		return nil, fmt.Errorf("%w: artist %s: %v", shared.ErrAPIRequest, id, err)
	}
	artist := artistFromFull(*full)
	return &artist, nil
}

// TopTracks retrieves an artist's top tracks in the configured market.
func (s *SpotifyService) TopTracks(ctx context.Context, artistID string) ([]Track, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	full, err := c.GetArtistsTopTracks(ctx, spotify.ID(ParseID(artistID)), s.market)
	if err != nil {
		return nil, fmt.Errorf("%w: top tracks %s: %v", shared.ErrAPIRequest, artistID, err)
	}

	tracks := make([]Track, 0, len(full))
	for _, t := range full {
		tracks = append(tracks, trackFromFull(t))
	}
	return tracks, nil
}

// RelatedArtists retrieves Spotify's related artists for an artist.
func (s *SpotifyService) RelatedArtists(ctx context.Context, artistID string) ([]Artist, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	full, err := c.GetRelatedArtists(ctx, spotify.ID(ParseID(artistID)))
	if err != nil {
		return nil, fmt.Errorf("%w: related artists %s: %v", shared.ErrAPIRequest, artistID, err)
	}

	artists := make([]Artist, 0, len(full))
	for _, a := range full {
		artists = append(artists, artistFromFull(a))
	}
	return artists, nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*User, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	u, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: current user: %v", shared.ErrAPIRequest, err)
	}
	return &User{ID: u.ID, DisplayName: u.DisplayName}, nil
}

// CreatePlaylist creates an empty, non-collaborative playlist for userID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error) {
	c, err := s.api()
	if err != nil {
		return nil, err
	}

	p, err := c.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return nil, fmt.Errorf("%w: create playlist %q: %v", shared.ErrAPIRequest, name, err)
	}

	return &Playlist{
		ID:          string(p.ID),
		URI:         string(p.URI),
		Name:        p.Name,
		OwnerID:     userID,
		Description: description,
		Public:      public,
	}, nil
}

// AddTracks appends tracks to a playlist.
//
// The Web API accepts at most 100 tracks per request, so larger lists are sent in order-preserving batches.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackRefs []string) error {
	c, err := s.api()
	if err != nil {
		return err
	}
	if len(trackRefs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackRefs))
	for i, ref := range trackRefs {
		ids[i] = spotify.ID(ParseID(ref))
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		if _, err := c.AddTracksToPlaylist(ctx, spotify.ID(ParseID(playlistID)), ids[i:end]...); err != nil {
			return fmt.Errorf("%w: adding tracks (batch %d-%d): %v", shared.ErrAPIRequest, i+1, end, err)
		}
	}
	return nil
}

// RemovePlaylist unfollows a playlist owned by the current user.
func (s *SpotifyService) RemovePlaylist(ctx context.Context, playlistID string) error {
	c, err := s.api()
	if err != nil {
		return err
	}

	if err := c.UnfollowPlaylist(ctx, spotify.ID(ParseID(playlistID))); err != nil {
		return fmt.Errorf("%w: unfollow playlist %s: %v", shared.ErrAPIRequest, playlistID, err)
	}
	return nil
}

// IsArtistReference reports whether query is a canonical artist reference rather than a free-text name.
func IsArtistReference(query string) bool {
	return strings.HasPrefix(query, ArtistURIPrefix) || strings.Contains(query, artistURLPrefix)
}

// ParseID extracts the bare Spotify ID from a URI (spotify:kind:id), an open.spotify.com URL or a bare ID.
func ParseID(ref string) string {
	if strings.HasPrefix(ref, "spotify:") {
		return ref[strings.LastIndex(ref, ":")+1:]
	}

	if strings.Contains(ref, "open.spotify.com/") {
		raw := ref
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		if u, err := url.Parse(raw); err == nil {
			path := strings.TrimSuffix(u.Path, "/")
			return path[strings.LastIndex(path, "/")+1:]
		}
	}
	return ref
}

func artistFromFull(a spotify.FullArtist) Artist {
	return Artist{
		ID:     string(a.ID),
		URI:    string(a.URI),
		Name:   a.Name,
		Genres: a.Genres,
		Raw:    a,
	}
}

func trackFromFull(t spotify.FullTrack) Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return Track{
		ID:      string(t.ID),
		URI:     string(t.URI),
		Name:    t.Name,
		Artists: artists,
	}
}

// refreshableTokenSource reports refreshed tokens so they can be persisted.
type refreshableTokenSource struct {
	base     oauth2.TokenSource
	mu       sync.Mutex
	last     string
	onChange func(*oauth2.Token)
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.base.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if token.AccessToken != r.last {
		r.last = token.AccessToken
		if r.onChange != nil {
			r.onChange(token)
		}
	}
	return token, nil
}
