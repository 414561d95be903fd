package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
)

// TopTrackFetcher returns an artist's most popular track.
type TopTrackFetcher struct {
	service services.MusicService
	logger  *log.Logger
}

func NewTopTrackFetcher(svc services.MusicService, logger *log.Logger) *TopTrackFetcher {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &TopTrackFetcher{service: svc, logger: logger}
}

// TopTrack returns the first entry of the artist's top tracks as ranked by the service.
func (f *TopTrackFetcher) TopTrack(ctx context.Context, artistID string) (*services.Track, error) {
	tracks, err := f.service.TopTracks(ctx, artistID)
	if err != nil {
		f.logger.Error("top tracks request failed", "artist", artistID, "err", err)
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrTopTracksUnavailable, artistID, err)
	}

	if len(tracks) == 0 {
		f.logger.Warn("No top tracks found", "artist", artistID, "response", tracks)
		return nil, fmt.Errorf("%w: %s", shared.ErrNoTopTracks, artistID)
	}

	track := tracks[0]
	return &track, nil
}
