package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/findartist/internal/shared"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func mapPage(names ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="gnodMap">`)
	for i, n := range names {
		fmt.Fprintf(&b, `<a href="%s" class="S" id="s%d"> %s </a>`, n, i, n)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func TestMusicMap(t *testing.T) {
	ctx := context.Background()

	t.Run("NewMusicMap", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			m := NewMusicMap("", nil)
			if m.URL("Radiohead") != "https://www.music-map.com/Radiohead" {
				t.Errorf("unexpected URL %s", m.URL("Radiohead"))
			}
			if m.httpClient != http.DefaultClient {
				t.Error("expected default HTTP client")
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			m := NewMusicMap("http://example.com/", nil)
			if m.URL("Muse") != "http://example.com/Muse" {
				t.Errorf("unexpected URL %s", m.URL("Muse"))
			}
		})

		t.Run("Name Inserted Raw", func(t *testing.T) {
			m := NewMusicMap("http://example.com", nil)
			if got := m.URL("Sigur Rós"); got != "http://example.com/Sigur Rós" {
				t.Errorf("expected unescaped name, got %s", got)
			}
		})
	})

	t.Run("SimilarArtists", func(t *testing.T) {
		t.Run("Success Keeps Order And Seed", func(t *testing.T) {
			var gotPath, gotUA string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotUA = r.Header.Get("User-Agent")
				w.Write([]byte(mapPage("Radiohead", "Thom Yorke", "Muse")))
			}))
			defer server.Close()

			m := NewMusicMap(server.URL, server.Client())
			m.SetUserAgent("findartist-test")

			names, err := m.SimilarArtists(ctx, "Radiohead")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []string{"Radiohead", "Thom Yorke", "Muse"}
			if len(names) != len(want) {
				t.Fatalf("expected %d names, got %d", len(want), len(names))
			}
			for i := range want {
				if names[i] != want[i] {
					t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
				}
			}
			if gotPath != "/Radiohead" {
				t.Errorf("expected path /Radiohead, got %s", gotPath)
			}
			if gotUA != "findartist-test" {
				t.Errorf("expected user agent header, got %q", gotUA)
			}
		})

		t.Run("Ignores Links Outside Map", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><body><a class="S">Ad</a><div id="gnodMap"><a class="S">Muse</a><a class="T">Other</a></div></body></html>`))
			}))
			defer server.Close()

			names, err := NewMusicMap(server.URL, server.Client()).SimilarArtists(ctx, "Radiohead")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(names) != 1 || names[0] != "Muse" {
				t.Errorf("expected [Muse], got %v", names)
			}
		})

		for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
			t.Run(fmt.Sprintf("Status %d", status), func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(status)
					w.Write([]byte(mapPage("Radiohead")))
				}))
				defer server.Close()

				names, err := NewMusicMap(server.URL, server.Client()).SimilarArtists(ctx, "Radiohead")
				if !errors.Is(err, shared.ErrScrapeFailed) {
					t.Errorf("expected ErrScrapeFailed, got %v", err)
				}
				if len(names) != 0 {
					t.Errorf("expected no names, got %v", names)
				}
			})
		}

		t.Run("Network Failure", func(t *testing.T) {
			client := &http.Client{Transport: failingTransport{}}
			_, err := NewMusicMap("http://music-map.invalid", client).SimilarArtists(ctx, "Radiohead")
			if !errors.Is(err, shared.ErrScrapeFailed) {
				t.Errorf("expected ErrScrapeFailed, got %v", err)
			}
		})

		t.Run("Invalid Request", func(t *testing.T) {
			_, err := NewMusicMap("http://example.com", nil).SimilarArtists(ctx, "%zz")
			if !errors.Is(err, shared.ErrScrapeFailed) {
				t.Errorf("expected ErrScrapeFailed, got %v", err)
			}
		})

		t.Run("Missing Container", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><body><p>We don't know this artist</p></body></html>`))
			}))
			defer server.Close()

			names, err := NewMusicMap(server.URL, server.Client()).SimilarArtists(ctx, "Nobody")
			if !errors.Is(err, shared.ErrMapNotFound) {
				t.Errorf("expected ErrMapNotFound, got %v", err)
			}
			if !errors.Is(err, shared.ErrNoSimilarArtists) {
				t.Errorf("expected ErrNoSimilarArtists, got %v", err)
			}
			if len(names) != 0 {
				t.Errorf("expected no names, got %v", names)
			}
		})

		t.Run("Container Without Links", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(mapPage()))
			}))
			defer server.Close()

			names, err := NewMusicMap(server.URL, server.Client()).SimilarArtists(ctx, "Radiohead")
			if !errors.Is(err, shared.ErrNoSimilarArtists) {
				t.Errorf("expected ErrNoSimilarArtists, got %v", err)
			}
			if errors.Is(err, shared.ErrMapNotFound) {
				t.Error("did not expect ErrMapNotFound when the container exists")
			}
			if len(names) != 0 {
				t.Errorf("expected no names, got %v", names)
			}
		})
	})
}
