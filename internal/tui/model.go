// Package tui runs the interactive explorer: a bubbletea program that feeds terminal input into
// nav.Dispatch and renders the resulting state.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/speakeasy-api/fieldmap/internal/nav"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/speakeasy-api/openapi/errors"
)

// ErrNoSource is reported when reload is requested without a loader.
const ErrNoSource = errors.Error("no source to reload")

const (
	defaultStatusTimeout = 3 * time.Second
	headerLines          = 2
	footerLines          = 1
	panelChrome          = 2
)

// Model is the bubbletea model of the explorer. All navigation lives in state; the model only adds
// terminal concerns such as size, the help footer and the popup viewport.
type Model struct {
	ctx    context.Context
	state  nav.State
	loader *snapshot.Loader

	keys  keyMap
	help  help.Model
	popup viewport.Model

	statusTimeout time.Duration
	inputTTY      bool
	width         int
	height        int
	quitting      bool
}

// Option configures a Model.
type Option func(*Model)

// WithStatusTimeout sets how long a status message stays in the footer.
func WithStatusTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.statusTimeout = d
		}
	}
}

// WithInputTTY reads keys from the terminal device instead of stdin, for when the document itself
// was piped in on stdin.
func WithInputTTY() Option {
	return func(m *Model) {
		m.inputTTY = true
	}
}

// NewModel creates an explorer over snap. loader re-reads the source on reload and may be nil.
func NewModel(ctx context.Context, snap *snapshot.Snapshot, loader *snapshot.Loader, opts ...Option) Model {
	m := Model{
		ctx:           ctx,
		state:         nav.New(snap),
		loader:        loader,
		keys:          defaultKeyMap(),
		help:          help.New(),
		popup:         viewport.New(80, 20),
		statusTimeout: defaultStatusTimeout,
		width:         120,
		height:        30,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the explorer on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, snap *snapshot.Snapshot, loader *snapshot.Loader, opts ...Option) error {
	m := NewModel(ctx, snap, loader, opts...)
	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if m.inputTTY {
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, programOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running explorer: %w", err)
	}
	return nil
}

// State returns the current navigation state.
func (m Model) State() nav.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.keys.quits(msg, m.state.Mode) {
			m.quitting = true
			return m, tea.Quit
		}
		ev, ok := m.keys.translate(msg, m.state.Mode)
		if !ok {
			return m, nil
		}
		return m.apply(ev)

	case nav.Event:
		return m.apply(msg)
	}
	return m, nil
}

// apply dispatches ev and starts whatever the transition asks of the runtime: a reload when
// loading begins, an expiry timer when a new status appears.
func (m Model) apply(ev nav.Event) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = nav.Dispatch(ev, prev)

	var cmds []tea.Cmd
	if m.state.Loading && !prev.Loading {
		cmds = append(cmds, m.reloadCmd())
	}
	if m.state.StatusSeq != prev.StatusSeq && m.state.Status != "" && !m.state.Loading {
		cmds = append(cmds, expireCmd(m.statusTimeout, m.state.StatusSeq))
	}

	switch len(cmds) {
	case 0:
		return m, nil
	case 1:
		return m, cmds[0]
	default:
		return m, tea.Batch(cmds...)
	}
}

func (m Model) reloadCmd() tea.Cmd {
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		if loader == nil {
			return nav.ReloadFailed{Err: ErrNoSource}
		}
		snap, err := loader.Load(ctx)
		if err != nil {
			return nav.ReloadFailed{Err: err}
		}
		return nav.ReloadSucceeded{Snapshot: snap}
	}
}

func expireCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return nav.StatusExpired{Seq: seq}
	})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.state.Mode {
	case nav.ModeHelp:
		return m.renderHelp()
	case nav.ModeDetail:
		return m.renderPopup()
	}
	return m.renderMain()
}

// bodyHeight is the number of content rows inside each panel.
func (m Model) bodyHeight() int {
	return max(1, m.height-headerLines-footerLines-panelChrome)
}
