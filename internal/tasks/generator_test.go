package tasks

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
	tu "github.com/desertthunder/findartist/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func radioheadFixture(t *testing.T) (user, app *tu.MockService, scraper Scraper) {
	t.Helper()
	radiohead := services.Artist{ID: "r1", URI: "spotify:artist:r1", Name: "Radiohead"}
	muse := services.Artist{ID: "m1", URI: "spotify:artist:m1", Name: "Muse"}

	user = tu.NewMockService()
	user.AddArtist(radiohead)

	app = tu.NewMockService()
	app.AddArtist(radiohead)
	app.AddArtist(muse, services.Track{ID: "123", URI: "track:123", Name: "Hysteria"})

	server := mapServer(t, http.StatusOK, tu.MustReadFile(t, "testdata/radiohead.html"))
	return user, app, services.NewMusicMap(server.URL, server.Client())
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("music-map scenario", func(t *testing.T) {
		user, app, scraper := radioheadFixture(t)
		g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper, Playlist: DefaultPlaylistOpts()})

		result, err := g.Generate(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"track:123"}, result.Tracks)
		assert.Equal(t, ModeMusicMap, result.Mode)
		assert.NotEmpty(t, result.RunID)
		require.Len(t, result.Candidates, 3)
		assert.Equal(t, "no top track", result.Candidates[0].Skipped)
		assert.Equal(t, "artist not found", result.Candidates[1].Skipped)
		assert.Empty(t, result.Candidates[2].Skipped)

		// seed search goes through the user handle, re-resolution through the app handle
		assert.Equal(t, []string{"SearchArtist:Radiohead"}, user.Calls[:1])
		assert.Equal(t, 3, app.Count("SearchArtist"))
		assert.Equal(t, 2, app.Count("TopTracks"), "Thom Yorke never resolves")
		assert.Contains(t, app.Calls, "TopTracks:r1", "self-entry is attempted")

		require.NotNil(t, result.Playlist)
		assert.Equal(t, "Radiohead recommendations", result.Playlist.Name)
		assert.Equal(t, 1, user.Count("CreatePlaylist"))
		assert.Equal(t, [][]string{{"track:123"}}, user.Added)
		assert.Zero(t, app.Count("CreatePlaylist"))
	})

	t.Run("skip seed drops the self-entry", func(t *testing.T) {
		user, app, scraper := radioheadFixture(t)
		g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper})

		result, err := g.Collect(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true, SkipSeed: true}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"track:123"}, result.Tracks)
		assert.Equal(t, "seed artist", result.Candidates[0].Skipped)
		assert.Equal(t, 2, app.Count("SearchArtist"))
		assert.NotContains(t, app.Calls, "TopTracks:r1")
	})

	t.Run("collect does not create a playlist", func(t *testing.T) {
		user, app, scraper := radioheadFixture(t)
		g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper})

		result, err := g.Collect(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, nil)
		require.NoError(t, err)
		assert.Nil(t, result.Playlist)
		assert.Zero(t, user.Count("CurrentUser"))
		assert.Zero(t, user.Count("CreatePlaylist"))
	})

	t.Run("app handle falls back to user", func(t *testing.T) {
		user, app, scraper := radioheadFixture(t)
		g := NewGenerator(GeneratorOpts{User: app, MusicMap: scraper})

		result, err := g.Collect(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"track:123"}, result.Tracks)
		assert.Empty(t, user.Calls)
	})

	t.Run("related artists with direct reference", func(t *testing.T) {
		user := tu.NewMockService()
		user.AddArtist(services.Artist{ID: "r1", URI: "spotify:artist:r1", Name: "Radiohead"})
		user.Related["r1"] = []services.Artist{
			{ID: "m1", Name: "Muse"},
			{ID: "p1", Name: "Portishead"},
			{ID: "b1", Name: "Blur"},
		}
		user.Tracks["m1"] = []services.Track{{URI: "spotify:track:m"}}
		user.Tracks["b1"] = []services.Track{{URI: "spotify:track:b"}}
		user.TracksErr["p1"] = errors.New("boom")

		g := NewGenerator(GeneratorOpts{User: user, Playlist: DefaultPlaylistOpts()})
		result, err := g.Generate(ctx, GenerateOpts{Query: "spotify:artist:r1"}, nil)
		require.NoError(t, err)

		assert.Zero(t, user.Count("SearchArtist"), "direct lookup bypasses search")
		assert.Equal(t, ModeRelated, result.Mode)
		assert.Equal(t, []string{"spotify:track:m", "spotify:track:b"}, result.Tracks)
		assert.Equal(t, 1, user.Count("CreatePlaylist"))
		assert.Equal(t, 1, user.Count("AddTracks"))
		assert.Equal(t, [][]string{{"spotify:track:m", "spotify:track:b"}}, user.Added)
	})

	t.Run("publish saves a collected result", func(t *testing.T) {
		user := tu.NewMockService()
		user.AddArtist(services.Artist{ID: "r1", URI: "spotify:artist:r1", Name: "Radiohead"})
		user.Related["r1"] = []services.Artist{{ID: "m1", Name: "Muse"}}
		user.Tracks["m1"] = []services.Track{{URI: "spotify:track:m"}}

		g := NewGenerator(GeneratorOpts{User: user})
		result, err := g.Collect(ctx, GenerateOpts{Query: "Radiohead"}, nil)
		require.NoError(t, err)
		assert.Zero(t, user.Count("CreatePlaylist"))

		progress := make(chan ProgressUpdate, 10)
		published, err := g.Publish(ctx, result, progress)
		require.NoError(t, err)
		close(progress)

		assert.Same(t, result, published)
		require.NotNil(t, published.Playlist)
		assert.Equal(t, "Radiohead recommendations", published.Playlist.Name)
		assert.True(t, published.Playlist.Public)
		assert.Equal(t, [][]string{{"spotify:track:m"}}, user.Added)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		assert.Equal(t, []Phase{CreatePlaylist, AddTracks}, phases)
	})

	t.Run("publish without tracks creates nothing", func(t *testing.T) {
		user := tu.NewMockService()
		g := NewGenerator(GeneratorOpts{User: user})

		for _, result := range []*Result{nil, {}, {Seed: &services.Artist{Name: "Radiohead"}}} {
			_, err := g.Publish(ctx, result, nil)
			assert.ErrorIs(t, err, shared.ErrNoSimilarTracks)
		}
		assert.Zero(t, user.Count("CreatePlaylist"))
	})

	t.Run("publish without user service", func(t *testing.T) {
		result := &Result{Seed: &services.Artist{Name: "Radiohead"}, Tracks: []string{"spotify:track:m"}}
		_, err := NewGenerator(GeneratorOpts{}).Publish(ctx, result, nil)
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})

	t.Run("related artists error propagates", func(t *testing.T) {
		user := tu.NewMockService()
		user.AddArtist(services.Artist{ID: "r1", Name: "Radiohead"})
		user.RelateErr = shared.ErrAPIRequest

		_, err := NewGenerator(GeneratorOpts{User: user}).Generate(ctx, GenerateOpts{Query: "Radiohead"}, nil)
		assert.ErrorIs(t, err, shared.ErrAPIRequest)
		assert.Zero(t, user.Count("CreatePlaylist"))
	})

	t.Run("seed not found", func(t *testing.T) {
		for _, useMusicMap := range []bool{true, false} {
			user, app, scraper := radioheadFixture(t)
			g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper})

			result, err := g.Generate(ctx, GenerateOpts{Query: "Nobody", UseMusicMap: useMusicMap}, nil)
			assert.ErrorIs(t, err, shared.ErrArtistNotFound)
			assert.EqualError(t, shared.ErrArtistNotFound, "Artist not found")
			assert.Nil(t, result.Seed)
			assert.Zero(t, user.Count("CreatePlaylist"))
		}
	})

	t.Run("empty similar list", func(t *testing.T) {
		t.Run("music-map", func(t *testing.T) {
			user, app, _ := radioheadFixture(t)
			server := mapServer(t, http.StatusNotFound, "")
			g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: services.NewMusicMap(server.URL, server.Client())})

			_, err := g.Generate(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, nil)
			assert.ErrorIs(t, err, shared.ErrNoSimilarTracks)
			assert.EqualError(t, err, "No similar tracks found")
			assert.Zero(t, user.Count("CreatePlaylist"))
		})

		t.Run("related artists", func(t *testing.T) {
			user := tu.NewMockService()
			user.AddArtist(services.Artist{ID: "r1", Name: "Radiohead"})

			_, err := NewGenerator(GeneratorOpts{User: user}).Generate(ctx, GenerateOpts{Query: "Radiohead"}, nil)
			assert.ErrorIs(t, err, shared.ErrNoSimilarTracks)
			assert.Zero(t, user.Count("CreatePlaylist"))
		})
	})

	t.Run("playlist failure", func(t *testing.T) {
		user, app, scraper := radioheadFixture(t)
		user.CreateErr = errors.New("forbidden")

		result, err := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper}).
			Generate(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, nil)
		assert.ErrorIs(t, err, shared.ErrPlaylistCreation)
		assert.Equal(t, []string{"track:123"}, result.Tracks)
		assert.Nil(t, result.Playlist)
	})

	t.Run("music-map mode without scraper", func(t *testing.T) {
		_, err := NewGenerator(GeneratorOpts{User: tu.NewMockService()}).
			Generate(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, nil)
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})

	t.Run("missing user service", func(t *testing.T) {
		_, err := NewGenerator(GeneratorOpts{}).Generate(ctx, GenerateOpts{Query: "Radiohead"}, nil)
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := NewGenerator(GeneratorOpts{User: tu.NewMockService()}).Generate(ctx, GenerateOpts{}, nil)
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})

	t.Run("logs carry the run id", func(t *testing.T) {
		var buf bytes.Buffer
		user, app, scraper := radioheadFixture(t)
		g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper, Logger: shared.NewLogger(&buf)})

		result, err := g.Collect(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "run="+result.RunID)
	})

	t.Run("reports progress", func(t *testing.T) {
		user, app, scraper := radioheadFixture(t)
		g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper})

		progress := make(chan ProgressUpdate, 20)
		_, err := g.Generate(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, progress)
		require.NoError(t, err)
		close(progress)

		phases := map[Phase]int{}
		for u := range progress {
			phases[u.Phase]++
		}
		assert.Equal(t, 2, phases[ResolveSeed])
		assert.Equal(t, 1, phases[FetchSimilar])
		assert.Equal(t, 3, phases[FetchTracks])
		assert.Equal(t, 1, phases[CreatePlaylist])
		assert.Equal(t, 1, phases[AddTracks])
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		user, app, scraper := radioheadFixture(t)
		g := NewGenerator(GeneratorOpts{User: user, App: app, MusicMap: scraper})

		progress := make(chan ProgressUpdate)
		_, err := g.Generate(ctx, GenerateOpts{Query: "Radiohead", UseMusicMap: true}, progress)
		require.NoError(t, err)
	})
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "resolve_seed", ResolveSeed.String())
	assert.Equal(t, "add_tracks", AddTracks.String())
	assert.Equal(t, "", Phase(99).String())
}
