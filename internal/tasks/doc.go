// Package tasks builds a playlist of similar artists' top tracks for a seed artist.
//
// # Pipeline
//
// [Generator] runs the steps in order, each backed by a small component:
//
//  1. [ArtistResolver] : search (or direct lookup) of the seed artist
//     - One search request, limit 1
//     - Zero matches and service failures both map to [shared.ErrArtistNotFound]
//
//  2. [SimilarArtistSource] : similar artists for the seed, picked once per run
//     - [MusicMapSource] scrapes music-map.com and yields names only
//     - [RelatedArtistsSource] asks the platform's related-artists endpoint
//
//  3. [TopTrackFetcher] : first top track for each candidate
//     - Name-only candidates are re-resolved first
//     - Any per-candidate failure skips that candidate
//
//  4. [PlaylistBuilder] : one playlist, one append
//     - Nothing is created when no tracks were collected
//
// # Progress Reporting
//
// Generate and Collect accept an optional channel of [ProgressUpdate].
// Updates are sent with select/default and are dropped when the channel is full.
//
// # Service Handles
//
// The generator holds two [services.MusicService] handles. The user handle owns the playlist
// and resolves the seed. The app handle (client-credentials) serves read calls in music-map mode
// and falls back to the user handle when unset.
package tasks
