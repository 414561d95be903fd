package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
)

// GeneratorOpts holds the dependencies of a [Generator].
type GeneratorOpts struct {
	User     services.MusicService // Authorized user; owns the playlist
	App      services.MusicService // Client-credentials handle for read calls; defaults to User
	MusicMap Scraper               // Required for music-map mode
	Logger   *log.Logger
	Playlist PlaylistOpts
}

// GenerateOpts describes a single run.
type GenerateOpts struct {
	Query       string // Artist name, or an artist URI/URL in related-artists mode
	UseMusicMap bool   // Use music-map.com instead of the related-artists endpoint
	SkipSeed    bool   // Drop candidates whose name matches the seed artist
}

// CandidateResult records what happened to a single similar artist.
type CandidateResult struct {
	Name    string           `json:"name"`
	Artist  *services.Artist `json:"artist,omitempty"`
	Track   *services.Track  `json:"track,omitempty"`
	Skipped string           `json:"skipped,omitempty"` // Reason the candidate contributed no track
}

// Result contains everything produced by a run, including partial progress on failure.
type Result struct {
	RunID      string             `json:"run_id"`
	Query      string             `json:"query"`
	Mode       Mode               `json:"mode"`
	Seed       *services.Artist   `json:"seed,omitempty"`
	Candidates []CandidateResult  `json:"candidates"`
	Tracks     []string           `json:"tracks"`
	Playlist   *services.Playlist `json:"playlist,omitempty"`
}

// Generator runs the similar-artist playlist pipeline.
type Generator struct {
	user     services.MusicService
	app      services.MusicService
	musicmap Scraper
	logger   *log.Logger
	playlist PlaylistOpts
}

// NewGenerator creates a Generator. A nil App falls back to User.
func NewGenerator(opts GeneratorOpts) *Generator {
	if opts.App == nil {
		opts.App = opts.User
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	return &Generator{
		user:     opts.User,
		app:      opts.App,
		musicmap: opts.MusicMap,
		logger:   opts.Logger,
		playlist: opts.Playlist,
	}
}

// PlaylistName returns the name given to the playlist generated for seed.
func PlaylistName(seed string) string {
	return seed + " recommendations"
}

// Generate resolves the seed, collects one top track per similar artist and saves them as a playlist.
//
// Fatal outcomes match [shared.ErrArtistNotFound], [shared.ErrNoSimilarTracks] or [shared.ErrPlaylistCreation].
// The returned Result is non-nil whenever the run got past setup.
func (g *Generator) Generate(ctx context.Context, opts GenerateOpts, progress chan<- ProgressUpdate) (*Result, error) {
	result, logger, err := g.collect(ctx, opts, progress)
	if err != nil {
		return result, err
	}
	return g.publish(ctx, result, logger, progress)
}

// Publish saves the tracks of a result returned by [Generator.Collect] as a playlist.
//
// Fails with [shared.ErrNoSimilarTracks] when result holds no tracks, without creating anything.
func (g *Generator) Publish(ctx context.Context, result *Result, progress chan<- ProgressUpdate) (*Result, error) {
	if result == nil || result.Seed == nil || len(result.Tracks) == 0 {
		return result, shared.ErrNoSimilarTracks
	}
	if g.user == nil {
		return result, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	return g.publish(ctx, result, shared.WithLogger(g.logger, "run", result.RunID), progress)
}

func (g *Generator) publish(ctx context.Context, result *Result, logger *log.Logger, progress chan<- ProgressUpdate) (*Result, error) {
	name := PlaylistName(result.Seed.Name)
	sendProgress(progress, createPlaylistUpdate(name, len(result.Tracks)))

	builder := NewPlaylistBuilder(g.user, logger, g.playlist)
	pl, err := builder.Build(ctx, name, result.Tracks)
	if err != nil {
		return result, err
	}

	result.Playlist = pl
	sendProgress(progress, playlistCreatedUpdate(pl))
	return result, nil
}

// Collect runs the pipeline up to, but not including, playlist creation.
func (g *Generator) Collect(ctx context.Context, opts GenerateOpts, progress chan<- ProgressUpdate) (*Result, error) {
	result, _, err := g.collect(ctx, opts, progress)
	return result, err
}

func (g *Generator) collect(ctx context.Context, opts GenerateOpts, progress chan<- ProgressUpdate) (*Result, *log.Logger, error) {
	if g.user == nil {
		return nil, g.logger, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Query == "" {
		return nil, g.logger, fmt.Errorf("%w: artist query is empty", shared.ErrMissingArgument)
	}

	result := &Result{RunID: shared.GenerateID(), Query: opts.Query, Mode: ModeRelated}
	logger := shared.WithLogger(g.logger, "run", result.RunID)

	var source SimilarArtistSource
	var reads services.MusicService
	if opts.UseMusicMap {
		if g.musicmap == nil {
			return nil, logger, fmt.Errorf("%w: music-map scraper not configured", shared.ErrServiceUnavailable)
		}
		source = NewMusicMapSource(g.musicmap, logger)
		reads = g.app
	} else {
		source = NewRelatedArtistsSource(g.user, logger)
		reads = g.user
	}
	result.Mode = source.Mode()
	logger.Info("starting run", "query", opts.Query, "mode", result.Mode)

	sendProgress(progress, resolveSeedUpdate(opts.Query))
	seedResolver := NewArtistResolver(g.user, logger)

	var seed *services.Artist
	var err error
	if opts.UseMusicMap {
		seed, err = seedResolver.Resolve(ctx, opts.Query)
	} else {
		seed, err = seedResolver.ResolveReference(ctx, opts.Query)
	}
	if err != nil {
		return result, logger, err
	}
	result.Seed = seed
	sendProgress(progress, foundSeedUpdate(seed))

	candidates, err := source.Similar(ctx, *seed)
	if err != nil {
		return result, logger, err
	}
	sendProgress(progress, fetchSimilarUpdate(result.Mode, len(candidates)))

	resolver := NewArtistResolver(reads, logger)
	fetcher := NewTopTrackFetcher(reads, logger)
	total := len(candidates)

	for i, c := range candidates {
		cr := g.candidate(ctx, c, seed, opts.SkipSeed, resolver, fetcher)
		if cr.Skipped != "" {
			logger.Info("skipping candidate", "name", cr.Name, "reason", cr.Skipped)
		} else {
			result.Tracks = append(result.Tracks, cr.Track.Ref())
		}
		result.Candidates = append(result.Candidates, cr)
		sendProgress(progress, trackUpdate(i+1, total, cr))
	}

	if len(result.Tracks) == 0 {
		logger.Warn("no tracks collected", "seed", seed.Name, "candidates", total)
		return result, logger, shared.ErrNoSimilarTracks
	}

	logger.Info("collected tracks", "seed", seed.Name, "tracks", len(result.Tracks), "candidates", total)
	return result, logger, nil
}

func (g *Generator) candidate(
	ctx context.Context,
	c Candidate,
	seed *services.Artist,
	skipSeed bool,
	resolver *ArtistResolver,
	fetcher *TopTrackFetcher,
) CandidateResult {
	cr := CandidateResult{Name: c.Name, Artist: c.Artist}

	if skipSeed && shared.SameArtist(c.Name, seed.Name) {
		cr.Skipped = "seed artist"
		return cr
	}

	if cr.Artist == nil {
		artist, err := resolver.Resolve(ctx, c.Name)
		if err != nil {
			cr.Skipped = "artist not found"
			return cr
		}
		cr.Artist = artist
	}

	track, err := fetcher.TopTrack(ctx, cr.Artist.ID)
	if err != nil {
		cr.Skipped = "no top track"
		return cr
	}
	cr.Track = track
	return cr
}
