// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/findartist/internal/services"
	"github.com/desertthunder/findartist/internal/shared"
)

// MockService is a scriptable test double for [services.MusicService].
//
// Artists are keyed by lower-cased search query, top tracks and related artists by artist ID.
// Every call is recorded in Calls as "Method:arg".
type MockService struct {
	Artists   map[string]services.Artist
	ByID      map[string]services.Artist
	Tracks    map[string][]services.Track
	Related   map[string][]services.Artist
	User      *services.User
	Created   *services.Playlist
	Calls     []string
	Added     [][]string
	Removed   []string
	SearchErr error
	ArtistErr error
	TracksErr map[string]error
	RelateErr error
	UserErr   error
	CreateErr error
	AddErr    error
	RemoveErr error
}

// NewMockService returns an empty MockService with a default user.
func NewMockService() *MockService {
	return &MockService{
		Artists:   map[string]services.Artist{},
		ByID:      map[string]services.Artist{},
		Tracks:    map[string][]services.Track{},
		Related:   map[string][]services.Artist{},
		TracksErr: map[string]error{},
		User:      &services.User{ID: "user-1", DisplayName: "Test User"},
	}
}

// AddArtist registers an artist findable both by name and by ID.
func (m *MockService) AddArtist(a services.Artist, tracks ...services.Track) {
	m.Artists[strings.ToLower(a.Name)] = a
	m.ByID[a.ID] = a
	if len(tracks) > 0 {
		m.Tracks[a.ID] = tracks
	}
}

// Count returns how many calls were made to method.
func (m *MockService) Count(method string) int {
	n := 0
	for _, c := range m.Calls {
		if strings.HasPrefix(c, method+":") {
			n++
		}
	}
	return n
}

func (m *MockService) record(method, arg string) {
	m.Calls = append(m.Calls, method+":"+arg)
}

func (m *MockService) SearchArtist(ctx context.Context, query string, limit int) ([]services.Artist, error) {
	m.record("SearchArtist", query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if a, ok := m.Artists[strings.ToLower(query)]; ok {
		return []services.Artist{a}, nil
	}
	return []services.Artist{}, nil
}

func (m *MockService) Artist(ctx context.Context, id string) (*services.Artist, error) {
	m.record("Artist", id)
	if m.ArtistErr != nil {
		return nil, m.ArtistErr
	}
	if a, ok := m.ByID[services.ParseID(id)]; ok {
		return &a, nil
	}
	return nil, shared.ErrAPIRequest
}

func (m *MockService) TopTracks(ctx context.Context, artistID string) ([]services.Track, error) {
	m.record("TopTracks", artistID)
	if err := m.TracksErr[artistID]; err != nil {
		return nil, err
	}
	return m.Tracks[artistID], nil
}

func (m *MockService) RelatedArtists(ctx context.Context, artistID string) ([]services.Artist, error) {
	m.record("RelatedArtists", artistID)
	if m.RelateErr != nil {
		return nil, m.RelateErr
	}
	return m.Related[artistID], nil
}

func (m *MockService) CurrentUser(ctx context.Context) (*services.User, error) {
	m.record("CurrentUser", "")
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	return m.User, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*services.Playlist, error) {
	m.record("CreatePlaylist", name)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created = &services.Playlist{
		ID:          "playlist-1",
		URI:         "spotify:playlist:playlist-1",
		Name:        name,
		OwnerID:     userID,
		Description: description,
		Public:      public,
	}
	return m.Created, nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, trackRefs []string) error {
	m.record("AddTracks", playlistID)
	if m.AddErr != nil {
		return m.AddErr
	}
	m.Added = append(m.Added, append([]string(nil), trackRefs...))
	return nil
}

func (m *MockService) RemovePlaylist(ctx context.Context, playlistID string) error {
	m.record("RemovePlaylist", playlistID)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Removed = append(m.Removed, playlistID)
	return nil
}

func (m *MockService) Name() string { return "mock" }

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FWriter fails every write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

// LimitedWriter forwards the first Allowed writes to W and fails afterwards.
type LimitedWriter struct {
	Allowed int
	W       io.Writer
	calls   int
}

func NewLimitedWriter(allowed int, w io.Writer) LimitedWriter {
	return LimitedWriter{Allowed: allowed, W: w}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	l.calls++
	if l.calls > l.Allowed {
		return 0, errors.New("write limit reached")
	}
	return l.W.Write(p)
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MapPage renders a music-map style page linking names inside div#gnodMap.
func MapPage(names ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="gnodMap">`)
	for i, n := range names {
		b.WriteString(`<a href="` + n + `" class="S" id="s` + string(rune('0'+i%10)) + `">` + n + `</a>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}
