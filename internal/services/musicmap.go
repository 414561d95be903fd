// music-map.com scraper
//
// music-map renders an artist's neighbourhood as absolutely positioned links inside div#gnodMap.
// Each link carries class "S"; the first one is the queried artist itself.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/findartist/internal/shared"
)

const (
	defaultMusicMapURL = "https://www.music-map.com"
	mapSelector        = "#gnodMap"
	artistSelector     = "a.S"
)

// MusicMap fetches similar-artist names from music-map.com.
type MusicMap struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewMusicMap creates a scraper for baseURL. Empty values fall back to music-map.com and [http.DefaultClient].
func NewMusicMap(baseURL string, client *http.Client) *MusicMap {
	if baseURL == "" {
		baseURL = defaultMusicMapURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &MusicMap{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
	}
}

// SetUserAgent sets the User-Agent header sent with every request.
func (m *MusicMap) SetUserAgent(ua string) {
	m.userAgent = ua
}

// URL returns the page address for artist. The name is inserted verbatim, without path escaping.
func (m *MusicMap) URL(artist string) string {
	return m.baseURL + "/" + artist
}

// SimilarArtists returns the names linked from the artist's map, in document order.
//
// The first name is conventionally the queried artist and is kept. A page without the map container
// yields an error matching both [shared.ErrMapNotFound] and [shared.ErrNoSimilarArtists].
func (m *MusicMap) SimilarArtists(ctx context.Context, artist string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL(artist), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrScrapeFailed, err)
	}
	if m.userAgent != "" {
		req.Header.Set("User-Agent", m.userAgent)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: page load unsuccessful: status %d", shared.ErrScrapeFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %v", shared.ErrScrapeFailed, err)
	}

	container := doc.Find(mapSelector)
	links := container.Find(artistSelector)

	names := make([]string, 0, links.Length())
	links.Each(func(_ int, s *goquery.Selection) {
		names = append(names, strings.TrimSpace(s.Text()))
	})

	if container.Length() == 0 {
		return names, fmt.Errorf("%w: %w: div%s missing", shared.ErrMapNotFound, shared.ErrNoSimilarArtists, mapSelector)
	}
	if len(names) == 0 {
		return names, fmt.Errorf("%w: music-map html changed?", shared.ErrNoSimilarArtists)
	}
	return names, nil
}
