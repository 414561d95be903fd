package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/findartist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CollectView ViewState = iota
	CandidateListView
	ConfirmView
	PublishView
	ResultView
)

// Pipeline is the part of [tasks.Generator] the TUI drives.
type Pipeline interface {
	Collect(ctx context.Context, opts tasks.GenerateOpts, progress chan<- tasks.ProgressUpdate) (*tasks.Result, error)
	Publish(ctx context.Context, result *tasks.Result, progress chan<- tasks.ProgressUpdate) (*tasks.Result, error)
}

var _ Pipeline = (*tasks.Generator)(nil)

// Model represents the TUI application state.
//
// A run collects candidates, lists them, asks for confirmation and then publishes the playlist.
type Model struct {
	ctx      context.Context
	view     ViewState
	pipeline Pipeline
	opts     tasks.GenerateOpts
	palette  *Palette
	width    int
	height   int
	list     list.Model
	hasList  bool
	spinner  spinner.Model
	progress tasks.ProgressUpdate
	updates  <-chan tasks.ProgressUpdate
	done     <-chan runDoneMsg
	result   *tasks.Result
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI model that runs opts through pipeline.
func NewModel(ctx context.Context, pipeline Pipeline, opts tasks.GenerateOpts, palette *Palette) *Model {
	if palette == nil {
		palette = DefaultPalette
	}
	return &Model{
		ctx:      ctx,
		view:     CollectView,
		pipeline: pipeline,
		opts:     opts,
		palette:  palette,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Outcome returns the last result and error, for printing once the program exits.
func (m *Model) Outcome() (*tasks.Result, error) {
	return m.result, m.err
}

// Init starts collecting candidates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCollect())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.hasList {
			m.list.SetSize(listSize(msg.Width, msg.Height))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CollectView, PublishView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case CandidateListView:
			return m.handleListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, waitForProgress(m.updates, m.done)

	case runDoneMsg:
		return m.finishRun(msg)
	}

	if m.view == CandidateListView {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CollectView, PublishView:
		return m.renderRunning()
	case CandidateListView:
		return m.renderList()
	case ConfirmView:
		return m.renderConfirm()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) finishRun(msg runDoneMsg) (tea.Model, tea.Cmd) {
	if msg.result != nil {
		m.result = msg.result
	}
	m.err = msg.err
	m.progress = tasks.ProgressUpdate{}
	m.updates, m.done = nil, nil

	if msg.err != nil || m.view == PublishView {
		m.view = ResultView
		return m, nil
	}

	m.list = list.New(candidateItems(m.result.Candidates), list.NewDefaultDelegate(), 0, 0)
	m.list.Title = fmt.Sprintf("Similar to %s", m.result.Seed.Name)
	m.list.SetSize(listSize(m.width, m.height))
	m.hasList = true
	m.view = CandidateListView
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			m.view = ConfirmView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = PublishView
		return m, tea.Batch(m.spinner.Tick, m.startPublish())
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = CandidateListView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = CollectView
		m.result = nil
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.startCollect())
	}
	return m, nil
}

func (m *Model) startCollect() tea.Cmd {
	opts := m.opts
	return m.run(func(progress chan<- tasks.ProgressUpdate) (*tasks.Result, error) {
		return m.pipeline.Collect(m.ctx, opts, progress)
	})
}

func (m *Model) startPublish() tea.Cmd {
	result := m.result
	return m.run(func(progress chan<- tasks.ProgressUpdate) (*tasks.Result, error) {
		return m.pipeline.Publish(m.ctx, result, progress)
	})
}

// run calls fn in the background and streams its progress back as messages.
func (m *Model) run(fn func(chan<- tasks.ProgressUpdate) (*tasks.Result, error)) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan runDoneMsg, 1)

	go func() {
		result, err := fn(progress)
		close(progress)
		done <- runDoneMsg{result: result, err: err}
	}()

	m.updates, m.done = progress, done
	return waitForProgress(progress, done)
}

func (m *Model) renderRunning() string {
	title := fmt.Sprintf("Finding artists similar to %s", m.opts.Query)
	if m.view == PublishView {
		title = "Creating playlist"
	}

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveSeed:
		phase = "Resolving artist..."
	case tasks.FetchSimilar:
		phase = "Fetching similar artists..."
	case tasks.FetchTracks:
		phase = fmt.Sprintf("Fetching top tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist, tasks.AddTracks:
		phase = "Saving playlist..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s\n\n%s",
		m.palette.Title(title),
		m.spinner.View(), phase,
		m.progress.Message,
		m.help.ShortHelpView([]key.Binding{m.keys.quit}),
	)
}

func (m *Model) renderList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}

func (m *Model) renderConfirm() string {
	name := tasks.PlaylistName(m.result.Seed.Name)
	title := m.palette.Title(fmt.Sprintf("Create '%s'?", name))
	info := fmt.Sprintf("\nSeed: %s (%s)\nTracks: %d of %d artists\n",
		m.result.Seed.Name, m.result.Mode, len(m.result.Tracks), len(m.result.Candidates))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", m.palette.Err(m.err.Error()), helpView)
	}
	if m.result == nil || m.result.Playlist == nil {
		return fmt.Sprintf("%s\n\n%s", m.palette.Err("No playlist was created"), helpView)
	}

	pl := m.result.Playlist
	var b strings.Builder
	b.WriteString(m.palette.OK("Playlist created!") + "\n\n")
	fmt.Fprintf(&b, "Name: %s\nURI: %s\nTracks: %d\n", pl.Name, pl.URI, len(m.result.Tracks))

	var skipped []string
	for _, c := range m.result.Candidates {
		if c.Track == nil {
			skipped = append(skipped, fmt.Sprintf("  • %s (%s)", c.Name, c.Skipped))
		}
	}
	if len(skipped) > 0 {
		b.WriteString("\n" + m.palette.Warn(fmt.Sprintf("Skipped %d artists:", len(skipped))) + "\n")
		b.WriteString(strings.Join(skipped, "\n") + "\n")
	}

	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func listSize(width, height int) (int, int) {
	return max(width-4, 0), max(height-8, 0)
}
