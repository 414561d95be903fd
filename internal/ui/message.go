package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/findartist/internal/tasks"
)

var (
	_ tea.Msg = progressMsg{}
	_ tea.Msg = runDoneMsg{}
)

// progressMsg carries a single [tasks.ProgressUpdate] from a running pipeline step.
type progressMsg tasks.ProgressUpdate

// runDoneMsg is sent once a Collect or Publish call returns.
type runDoneMsg struct {
	result *tasks.Result
	err    error
}

// waitForProgress reads the next update, or the final outcome once progress is closed.
func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan runDoneMsg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressMsg(update)
	}
}
