package tasks

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/findartist/internal/shared"
	tu "github.com/desertthunder/findartist/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistBuilder(t *testing.T) {
	ctx := context.Background()
	refs := []string{"spotify:track:1", "spotify:track:2"}

	t.Run("creates and fills a public playlist", func(t *testing.T) {
		svc := tu.NewMockService()

		pl, err := NewPlaylistBuilder(svc, nil, DefaultPlaylistOpts()).Build(ctx, "Radiohead recommendations", refs)
		require.NoError(t, err)
		assert.Equal(t, "Radiohead recommendations", pl.Name)
		assert.Equal(t, "user-1", pl.OwnerID)
		assert.Equal(t, DefaultDescription, pl.Description)
		assert.True(t, pl.Public)
		assert.Equal(t, refs, pl.Tracks)

		assert.Equal(t, []string{
			"CurrentUser:",
			"CreatePlaylist:Radiohead recommendations",
			"AddTracks:playlist-1",
		}, svc.Calls)
		assert.Equal(t, [][]string{refs}, svc.Added)
	})

	t.Run("empty description uses default", func(t *testing.T) {
		svc := tu.NewMockService()

		pl, err := NewPlaylistBuilder(svc, nil, PlaylistOpts{Public: true}).Build(ctx, "x", refs)
		require.NoError(t, err)
		assert.Equal(t, DefaultDescription, pl.Description)
	})

	t.Run("zero opts create a public playlist", func(t *testing.T) {
		svc := tu.NewMockService()

		pl, err := NewPlaylistBuilder(svc, nil, PlaylistOpts{}).Build(ctx, "x", refs)
		require.NoError(t, err)
		assert.True(t, pl.Public)
		assert.Equal(t, DefaultDescription, pl.Description)
	})

	t.Run("zero opts roll back on add failure", func(t *testing.T) {
		svc := tu.NewMockService()
		svc.AddErr = errors.New("boom")

		_, err := NewPlaylistBuilder(svc, nil, PlaylistOpts{}).Build(ctx, "x", refs)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.Equal(t, 1, svc.Count("RemovePlaylist"))
	})

	t.Run("no refs", func(t *testing.T) {
		svc := tu.NewMockService()

		_, err := NewPlaylistBuilder(svc, nil, DefaultPlaylistOpts()).Build(ctx, "x", nil)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.Zero(t, svc.Count("CreatePlaylist"))
	})

	t.Run("current user failure", func(t *testing.T) {
		svc := tu.NewMockService()
		svc.UserErr = errors.New("unauthorized")

		_, err := NewPlaylistBuilder(svc, nil, DefaultPlaylistOpts()).Build(ctx, "x", refs)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.Zero(t, svc.Count("CreatePlaylist"))
	})

	t.Run("create failure", func(t *testing.T) {
		svc := tu.NewMockService()
		svc.CreateErr = errors.New("forbidden")

		_, err := NewPlaylistBuilder(svc, nil, DefaultPlaylistOpts()).Build(ctx, "x", refs)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.EqualError(t, shared.ErrPlaylistCreation, "Playlist creation failed")
		assert.Zero(t, svc.Count("AddTracks"))
	})

	t.Run("add failure rolls back", func(t *testing.T) {
		svc := tu.NewMockService()
		svc.AddErr = errors.New("too many tracks")

		_, err := NewPlaylistBuilder(svc, nil, DefaultPlaylistOpts()).Build(ctx, "x", refs)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.Equal(t, []string{"playlist-1"}, svc.Removed)
	})

	t.Run("add failure without rollback keeps playlist", func(t *testing.T) {
		svc := tu.NewMockService()
		svc.AddErr = errors.New("too many tracks")

		opts := DefaultPlaylistOpts()
		opts.Rollback = false
		_, err := NewPlaylistBuilder(svc, nil, opts).Build(ctx, "x", refs)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.Zero(t, svc.Count("RemovePlaylist"))
	})

	t.Run("rollback failure keeps the original error", func(t *testing.T) {
		var buf bytes.Buffer
		svc := tu.NewMockService()
		svc.AddErr = errors.New("too many tracks")
		svc.RemoveErr = errors.New("gone")

		_, err := NewPlaylistBuilder(svc, shared.NewLogger(&buf), DefaultPlaylistOpts()).Build(ctx, "x", refs)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.Contains(t, err.Error(), "too many tracks")
		assert.Contains(t, buf.String(), "failed to remove incomplete playlist")
	})
}
