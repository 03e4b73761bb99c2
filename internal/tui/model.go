// Package tui provides a terminal view of stylesheet compilations.
package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// State is the display state of a stylesheet.
type State string

const (
	// StateRunning means a compile or freshness check is in progress.
	StateRunning State = "running"
	// StateCompiled means the compiler ran and the cache was rewritten.
	StateCompiled State = "compiled"
	// StateCached means the cached CSS was served.
	StateCached State = "cached"
	// StateFailed means the last run failed.
	StateFailed State = "failed"
)

// Row is the latest known state of one stylesheet.
type Row struct {
	Name  string
	State State
	// Runs counts how often the stylesheet was processed, which grows in watch mode.
	Runs int
	// Detail is the last diagnostic line, usually from the compiler's stderr.
	Detail string
}

// Model is the Bubble Tea model showing one row per stylesheet.
type Model struct {
	tape     TapeSource
	rows     []Row
	vertices map[string]string
	width    int
	height   int
	spinner  spinner.Model
	ended    bool
}

// NewModel creates a new model reading from tape.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle

	return &Model{
		tape:     tape,
		vertices: make(map[string]string),
		spinner:  s,
	}
}

// Rows returns a copy of the current rows, sorted by name.
func (m *Model) Rows() []Row {
	return slices.Clone(m.rows)
}

// Init starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForTape(m.tape),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		m.apply(msg.Update)
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		m.ended = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(update *progrock.StatusUpdate) {
	for _, v := range update.Vertexes {
		m.applyVertex(v)
	}
	for _, l := range update.Logs {
		if l.Stream != progrock.LogStream_STDERR {
			continue
		}
		name, ok := m.vertices[l.Vertex]
		if !ok {
			continue
		}
		if line := lastLine(string(l.Data)); line != "" {
			m.row(name).Detail = line
		}
	}
}

func (m *Model) applyVertex(v *progrock.Vertex) {
	if _, seen := m.vertices[v.Id]; !seen {
		m.vertices[v.Id] = v.Name
		r := m.row(v.Name)
		r.Runs++
		r.State = StateRunning
		r.Detail = ""
	}

	if v.Completed == nil {
		return
	}
	r := m.row(v.Name)
	switch {
	case v.Error != nil:
		r.State = StateFailed
		if line := lastLine(*v.Error); line != "" {
			r.Detail = line
		}
	case v.Cached:
		r.State = StateCached
	default:
		r.State = StateCompiled
	}
}

// row returns the row for name, inserting it in name order when missing.
func (m *Model) row(name string) *Row {
	i, found := slices.BinarySearchFunc(m.rows, name, func(r Row, n string) int {
		return strings.Compare(r.Name, n)
	})
	if !found {
		m.rows = slices.Insert(m.rows, i, Row{Name: name, State: StateRunning})
	}
	return &m.rows[i]
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
