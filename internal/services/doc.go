// Package services talks to the outside world: the Spotify Web API and music-map.com.
//
// # MusicService Interface
//
// [MusicService] is the narrow set of platform calls the playlist pipeline makes: artist search and lookup,
// top tracks, related artists, the current user and playlist creation.
//
// # Spotify Implementation
//
// [SpotifyService] wraps github.com/zmb3/spotify/v2. Two flavours are used per run:
//   - user-scoped, authorized with the authorization code flow; owns the generated playlist
//   - app-scoped, authorized with client credentials; used for read-heavy lookups
//
// Refreshed user tokens are reported through [SpotifyService.SetTokenRefreshCallback] so the CLI can persist them.
//
// # music-map Scraper
//
// [MusicMap] fetches https://www.music-map.com/<artist> and extracts the names linked from div#gnodMap.
// The artist name goes into the path unescaped, so names that do not form a valid URL fail at request construction.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : Spotify rejected or failed a call
//   - [shared.ErrScrapeFailed] : music-map request failed or returned non-200
//   - [shared.ErrMapNotFound] : the page has no map container
//   - [shared.ErrNoSimilarArtists] : the map has no artist links
package services
