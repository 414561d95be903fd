package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
)

// Mode selects where similar artists come from.
type Mode string

const (
	ModeMusicMap Mode = "music-map"
	ModeRelated  Mode = "related-artists"
)

// Candidate is a similar artist. Scraped candidates carry only a Name and
// must be resolved before their tracks can be fetched.
type Candidate struct {
	Name   string
	Artist *services.Artist
}

// SimilarArtistSource lists artists similar to a seed.
type SimilarArtistSource interface {
	Similar(ctx context.Context, seed services.Artist) ([]Candidate, error)
	Mode() Mode
}

// Scraper fetches similar-artist names by artist name. Implemented by [services.MusicMap].
type Scraper interface {
	SimilarArtists(ctx context.Context, artist string) ([]string, error)
}

// MusicMapSource scrapes music-map.com for the seed's name.
//
// Scrape failures never reach the caller: they are logged and the source yields no candidates.
type MusicMapSource struct {
	scraper Scraper
	logger  *log.Logger
}

func NewMusicMapSource(scraper Scraper, logger *log.Logger) *MusicMapSource {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &MusicMapSource{scraper: scraper, logger: logger}
}

func (s *MusicMapSource) Mode() Mode { return ModeMusicMap }

func (s *MusicMapSource) Similar(ctx context.Context, seed services.Artist) ([]Candidate, error) {
	names, err := s.scraper.SimilarArtists(ctx, seed.Name)
	if err != nil {
		mapErr := errors.Is(err, shared.ErrMapNotFound)
		emptyErr := errors.Is(err, shared.ErrNoSimilarArtists)
		if mapErr {
			s.logger.Warn("artist not found", "artist", seed.Name, "err", err)
		}
		if emptyErr {
			s.logger.Warn("no similar artists found", "artist", seed.Name)
		}
		if !mapErr && !emptyErr {
			s.logger.Error("music-map request failed", "artist", seed.Name, "err", err)
		}
	}

	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		candidates = append(candidates, Candidate{Name: name})
	}

	if len(candidates) > 0 && !shared.SameArtist(candidates[0].Name, seed.Name) {
		s.logger.Warn("first map entry does not match the seed artist", "seed", seed.Name, "first", candidates[0].Name)
	}
	return candidates, nil
}

// RelatedArtistsSource asks the music service for related artists. Errors propagate.
type RelatedArtistsSource struct {
	service services.MusicService
	logger  *log.Logger
}

func NewRelatedArtistsSource(svc services.MusicService, logger *log.Logger) *RelatedArtistsSource {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &RelatedArtistsSource{service: svc, logger: logger}
}

func (s *RelatedArtistsSource) Mode() Mode { return ModeRelated }

func (s *RelatedArtistsSource) Similar(ctx context.Context, seed services.Artist) ([]Candidate, error) {
	related, err := s.service.RelatedArtists(ctx, seed.ID)
	if err != nil {
		s.logger.Error("related artists request failed", "artist", seed.Name, "err", err)
		return nil, fmt.Errorf("related artists for %s: %w", seed.Name, err)
	}

	candidates := make([]Candidate, len(related))
	for i := range related {
		candidates[i] = Candidate{Name: related[i].Name, Artist: &related[i]}
	}
	return candidates, nil
}
