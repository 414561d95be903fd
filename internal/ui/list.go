package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/findartist/internal/tasks"
)

var _ list.Item = candidateItem{}

// candidateItem wraps [tasks.CandidateResult] to implement [list.Item].
type candidateItem struct {
	candidate tasks.CandidateResult
}

func (i candidateItem) FilterValue() string { return i.candidate.Name }
func (i candidateItem) Title() string {
	if i.candidate.Track == nil {
		return "✗ " + i.candidate.Name
	}
	return "✓ " + i.candidate.Name
}

func (i candidateItem) Description() string {
	if i.candidate.Track == nil {
		return fmt.Sprintf("skipped: %s", i.candidate.Skipped)
	}
	return i.candidate.Track.Name
}

func candidateItems(candidates []tasks.CandidateResult) []list.Item {
	items := make([]list.Item, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{candidate: c}
	}
	return items
}
