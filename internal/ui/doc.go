// Package ui holds the lipgloss palette used for terminal output and the
// interactive bubbletea front end of the generator.
//
// The TUI moves through CollectView, CandidateListView, ConfirmView,
// PublishView and ResultView. Collection and publishing run in the
// background; their progress updates arrive as messages.
//
// Styles degrade to plain text when the output is not a terminal.
package ui
