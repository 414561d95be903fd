package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Music service errors
	ErrAPIRequest           = fmt.Errorf("API request failed")
	ErrServiceUnavailable   = fmt.Errorf("service unavailable")
	ErrTopTracksUnavailable = fmt.Errorf("top tracks unavailable")
	ErrNoTopTracks          = fmt.Errorf("no top tracks found")

	// music-map scrape errors
	ErrScrapeFailed     = fmt.Errorf("music-map request failed")
	ErrMapNotFound      = fmt.Errorf("artist not found on music-map")
	ErrNoSimilarArtists = fmt.Errorf("no similar artists found")

	// Pipeline outcomes. The messages are shown verbatim to the user.
	ErrArtistNotFound   = fmt.Errorf("Artist not found")
	ErrNoSimilarTracks  = fmt.Errorf("No similar tracks found")
	ErrPlaylistCreation = fmt.Errorf("Playlist creation failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
