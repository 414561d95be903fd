// package services defines interface MusicService for the streaming platform and the music-map scraper
package services

import (
	"context"
)

// MusicService defines the operations the playlist pipeline needs from a streaming platform.
type MusicService interface {
	// SearchArtist returns at most limit artists matching query, best match first.
	SearchArtist(ctx context.Context, query string, limit int) ([]Artist, error)

	// Artist looks up a single artist by platform ID or URI.
	Artist(ctx context.Context, id string) (*Artist, error)

	// TopTracks returns the platform-ranked top tracks of an artist.
	TopTracks(ctx context.Context, artistID string) ([]Track, error)

	// RelatedArtists returns the platform's related artists for an artist.
	RelatedArtists(ctx context.Context, artistID string) ([]Artist, error)

	// CurrentUser returns the authenticated user.
	CurrentUser(ctx context.Context) (*User, error)

	// CreatePlaylist creates an empty playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error)

	// AddTracks appends track references (URIs or IDs) to a playlist in a single call.
	AddTracks(ctx context.Context, playlistID string, trackRefs []string) error

	// RemovePlaylist unfollows a playlist, which is how Spotify deletes one.
	RemovePlaylist(ctx context.Context, playlistID string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// Artist represents an artist record from the music service.
type Artist struct {
	ID     string
	URI    string
	Name   string
	Genres []string
	Raw    any `json:"-"` // Provider record the artist was built from
}

// Track represents a single track from the music service.
type Track struct {
	ID      string
	URI     string
	Name    string
	Artists []string
}

// Ref returns the opaque reference used to add the track to a playlist.
func (t Track) Ref() string {
	if t.URI != "" {
		return t.URI
	}
	return t.ID
}

// User represents the authenticated account.
type User struct {
	ID          string
	DisplayName string
}

// Playlist represents a playlist created by the pipeline.
type Playlist struct {
	ID          string
	URI         string
	Name        string
	OwnerID     string
	Description string
	Public      bool
	Tracks      []string
}
