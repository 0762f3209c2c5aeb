package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/speakeasy-api/fieldmap/internal/nav"
)

type keyMap struct {
	Views  key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Search key.Binding
	Esc    key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Views:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "switch view")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Esc:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h/?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Views, k.Tab, k.Enter, k.Search, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Views, k.Tab, k.Up, k.Down, k.Enter},
		{k.Search, k.Esc, k.Reload, k.Help, k.Quit},
	}
}

// translate decodes a terminal key into a navigation event. j and k move the cursor except while
// typing a search query, where every printable key is text.
func (k keyMap) translate(msg tea.KeyMsg, mode nav.Mode) (nav.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyTab:
		return nav.KeyEvent{Key: nav.KeyTab}, true
	case tea.KeyEsc:
		return nav.KeyEvent{Key: nav.KeyEsc}, true
	case tea.KeyEnter:
		return nav.KeyEvent{Key: nav.KeyEnter}, true
	case tea.KeyUp:
		return nav.KeyEvent{Key: nav.KeyUp}, true
	case tea.KeyDown:
		return nav.KeyEvent{Key: nav.KeyDown}, true
	case tea.KeyBackspace:
		return nav.KeyEvent{Key: nav.KeyBackspace}, true
	case tea.KeySpace:
		return nav.KeyEvent{Key: nav.KeyRune, Rune: ' '}, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return nav.KeyEvent{}, false
		}
		if mode != nav.ModeSearch {
			switch {
			case key.Matches(msg, k.Up):
				return nav.KeyEvent{Key: nav.KeyUp, Rune: msg.Runes[0]}, true
			case key.Matches(msg, k.Down):
				return nav.KeyEvent{Key: nav.KeyDown, Rune: msg.Runes[0]}, true
			}
		}
		return nav.RuneKey(msg.Runes[0]), true
	}
	return nav.KeyEvent{}, false
}

// quits reports whether msg ends the program: ctrl+c anywhere, q only while browsing.
func (k keyMap) quits(msg tea.KeyMsg, mode nav.Mode) bool {
	if msg.Type == tea.KeyCtrlC {
		return true
	}
	return mode == nav.ModeBrowse && key.Matches(msg, k.Quit)
}
