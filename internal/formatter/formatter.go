// package formatter renders generation results as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/findartist/internal/shared"
	"github.com/desertthunder/findartist/internal/tasks"
)

// Format names an output format.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// Formats lists the accepted format names.
var Formats = []Format{Text, Markdown, CSV, JSON}

// ParseFormat validates s. The empty string selects [Text]; "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Render converts result to the given format.
func Render(result *tasks.Result, f Format) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: nothing to render", shared.ErrInvalidArgument)
	}

	switch f {
	case Text, "":
		return ToText(result)
	case Markdown:
		return ToMarkdown(result)
	case CSV:
		return ToCSV(result)
	case JSON:
		return shared.MarshalJSON(result, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// ToText lists every candidate with its top track or the reason it was skipped.
func ToText(result *tasks.Result) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Seed: %s\n", seedName(result))
	fmt.Fprintf(&buf, "Source: %s\n", result.Mode)
	if result.Playlist != nil {
		fmt.Fprintf(&buf, "Playlist: %s (%s)\n", result.Playlist.Name, result.Playlist.URI)
	}
	fmt.Fprintf(&buf, "Tracks: %d/%d\n\n", len(result.Tracks), len(result.Candidates))

	for i, c := range result.Candidates {
		if c.Track != nil {
			fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, c.Name, c.Track.Name)
		} else {
			fmt.Fprintf(&buf, "%d. %s (skipped: %s)\n", i+1, c.Name, c.Skipped)
		}
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a heading, a summary and a candidate table.
func ToMarkdown(result *tasks.Result) ([]byte, error) {
	var buf bytes.Buffer

	title := tasks.PlaylistName(seedName(result))
	if result.Playlist != nil {
		title = result.Playlist.Name
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)

	fmt.Fprintf(&buf, "**Seed**: %s\n", seedName(result))
	fmt.Fprintf(&buf, "**Source**: %s\n", result.Mode)
	if result.Playlist != nil {
		fmt.Fprintf(&buf, "**Playlist**: `%s`\n", result.Playlist.URI)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(result.Tracks))

	buf.WriteString("| # | Artist | Top track | Note |\n")
	buf.WriteString("|---|--------|-----------|------|\n")
	for i, c := range result.Candidates {
		track := ""
		if c.Track != nil {
			track = escapeCell(c.Track.Name)
		}
		fmt.Fprintf(&buf, "| %d | %s | %s | %s |\n", i+1, escapeCell(c.Name), track, c.Skipped)
	}

	return buf.Bytes(), nil
}

// ToCSV writes one row per candidate: Artist, ArtistURI, Track, TrackURI, Skipped.
func ToCSV(result *tasks.Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Artist", "ArtistURI", "Track", "TrackURI", "Skipped"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range result.Candidates {
		var artistURI, track, trackURI string
		if c.Artist != nil {
			artistURI = c.Artist.URI
		}
		if c.Track != nil {
			track = c.Track.Name
			trackURI = c.Track.Ref()
		}
		if err := writer.Write([]string{c.Name, artistURI, track, trackURI, c.Skipped}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders result and writes it to path.
func WriteFile(result *tasks.Result, f Format, path string) error {
	data, err := Render(result, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func seedName(result *tasks.Result) string {
	if result.Seed != nil {
		return result.Seed.Name
	}
	return result.Query
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
