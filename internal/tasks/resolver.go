package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
)

// ArtistResolver turns a free-text query into a single artist.
type ArtistResolver struct {
	service services.MusicService
	logger  *log.Logger
}

// NewArtistResolver creates a resolver backed by svc. A nil logger discards output.
func NewArtistResolver(svc services.MusicService, logger *log.Logger) *ArtistResolver {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &ArtistResolver{service: svc, logger: logger}
}

// Resolve searches for query and returns the best match.
//
// Exactly one search request is made. Both an empty result and a failed request
// are reported as [shared.ErrArtistNotFound].
func (r *ArtistResolver) Resolve(ctx context.Context, query string) (*services.Artist, error) {
	if r.service == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}

	artists, err := r.service.SearchArtist(ctx, query, 1)
	if err != nil {
		r.logger.Error("artist search failed", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrArtistNotFound, query, err)
	}

	if len(artists) == 0 {
		r.logger.Warnf("%s: no matches", query)
		return nil, fmt.Errorf("%w: %s", shared.ErrArtistNotFound, query)
	}

	artist := artists[0]
	r.logger.Debug("resolved artist", "query", query, "name", artist.Name, "uri", artist.URI)
	return &artist, nil
}

// ResolveReference looks the artist up directly when query is an artist URI or URL,
// and falls back to [ArtistResolver.Resolve] otherwise.
func (r *ArtistResolver) ResolveReference(ctx context.Context, query string) (*services.Artist, error) {
	if !services.IsArtistReference(query) {
		return r.Resolve(ctx, query)
	}
	if r.service == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}

	artist, err := r.service.Artist(ctx, query)
	if err != nil {
		r.logger.Error("artist lookup failed", "reference", query, "err", err)
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrArtistNotFound, query, err)
	}
	return artist, nil
}
