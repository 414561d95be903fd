package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
)

const DefaultDescription = "generated by FindSimilarArtists"

// PlaylistOpts controls playlist creation.
type PlaylistOpts struct {
	Description string // Playlist description
	Public      bool   // Create a public playlist
	Rollback    bool   // Unfollow the new playlist when tracks cannot be added
}

// DefaultPlaylistOpts returns a public playlist with the default description and rollback enabled.
func DefaultPlaylistOpts() PlaylistOpts {
	return PlaylistOpts{Description: DefaultDescription, Public: true, Rollback: true}
}

// PlaylistBuilder creates a playlist for the current user and fills it.
type PlaylistBuilder struct {
	service services.MusicService
	logger  *log.Logger
	opts    PlaylistOpts
}

// NewPlaylistBuilder creates a PlaylistBuilder. Zero opts mean [DefaultPlaylistOpts].
func NewPlaylistBuilder(svc services.MusicService, logger *log.Logger, opts PlaylistOpts) *PlaylistBuilder {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	if opts == (PlaylistOpts{}) {
		opts = DefaultPlaylistOpts()
	}
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}
	return &PlaylistBuilder{service: svc, logger: logger, opts: opts}
}

// Build creates playlist name and appends refs in a single call.
//
// Every failure is reported as [shared.ErrPlaylistCreation]. With rollback enabled, a playlist
// whose tracks could not be added is removed again.
func (b *PlaylistBuilder) Build(ctx context.Context, name string, refs []string) (*services.Playlist, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no tracks to add", shared.ErrPlaylistCreation)
	}

	user, err := b.service.CurrentUser(ctx)
	if err != nil {
		b.logger.Error("failed to get current user", "err", err)
		return nil, fmt.Errorf("%w: current user: %v", shared.ErrPlaylistCreation, err)
	}

	pl, err := b.service.CreatePlaylist(ctx, user.ID, name, b.opts.Description, b.opts.Public)
	if err != nil {
		b.logger.Error("failed to create playlist", "name", name, "user", user.ID, "err", err)
		return nil, fmt.Errorf("%w: create: %v", shared.ErrPlaylistCreation, err)
	}

	if err := b.service.AddTracks(ctx, pl.ID, refs); err != nil {
		b.logger.Error("failed to add tracks", "playlist", pl.ID, "tracks", len(refs), "err", err)
		if b.opts.Rollback {
			b.rollback(ctx, pl)
		}
		return nil, fmt.Errorf("%w: add tracks: %v", shared.ErrPlaylistCreation, err)
	}

	pl.Tracks = append([]string(nil), refs...)
	b.logger.Info("playlist created", "name", pl.Name, "id", pl.ID, "tracks", len(refs))
	return pl, nil
}

func (b *PlaylistBuilder) rollback(ctx context.Context, pl *services.Playlist) {
	if err := b.service.RemovePlaylist(ctx, pl.ID); err != nil {
		b.logger.Error("failed to remove incomplete playlist", "playlist", pl.ID, "err", err)
		return
	}
	b.logger.Warn("removed incomplete playlist", "playlist", pl.ID)
}
