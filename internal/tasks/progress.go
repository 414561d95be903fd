package tasks

import (
	"fmt"

	"github.com/desertthunder/findartist/internal/services"
)

// ProgressUpdate represents a progress event during a generation run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ResolveSeed Phase = iota
	FetchSimilar
	FetchTracks
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case ResolveSeed:
		return "resolve_seed"
	case FetchSimilar:
		return "fetch_similar"
	case FetchTracks:
		return "fetch_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

// sendProgress sends update without blocking. A nil channel disables reporting.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func resolveSeedUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSeed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Searching for %s...", query),
	}
}

func foundSeedUpdate(a *services.Artist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSeed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found artist: %s (%s)", a.Name, a.URI),
		Data:    a,
	}
}

func fetchSimilarUpdate(mode Mode, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSimilar,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d similar artists via %s", count, mode),
	}
}

func trackUpdate(step, total int, c CandidateResult) ProgressUpdate {
	if c.Track == nil {
		return ProgressUpdate{
			Phase:   FetchTracks,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s (%s)", step, total, c.Name, c.Skipped),
			Data:    c,
		}
	}
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, c.Name, c.Track.Name),
		Data:    c,
	}
}

func createPlaylistUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q with %d tracks...", name, count),
	}
}

func playlistCreatedUpdate(pl *services.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}
