package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a simulator command produced by a key press.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionPress
	ActionShake
	ActionRestart
	ActionScores
	ActionQuit
)

// KeyMap defines the key bindings of the simulator.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Press   key.Binding
	Shake   key.Binding
	Restart key.Binding
	Scores  key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Press, k.Shake, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Press, k.Shake},
		{k.Restart, k.Scores, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("←/h", "turn left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("→/l", "turn right"),
		),
		Press: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "press"),
		),
		Shake: key.NewBinding(
			key.WithKeys("s", "x"),
			key.WithHelp("s", "shake"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new game"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates key messages into simulator actions.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings used by the mapper.
func (m *KeyMapper) Keys() KeyMap {
	return m.keys
}

// MapKey returns the action bound to msg, or ActionNone.
func (m *KeyMapper) MapKey(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return ActionQuit
	case key.Matches(msg, m.keys.Left):
		return ActionLeft
	case key.Matches(msg, m.keys.Right):
		return ActionRight
	case key.Matches(msg, m.keys.Press):
		return ActionPress
	case key.Matches(msg, m.keys.Shake):
		return ActionShake
	case key.Matches(msg, m.keys.Restart):
		return ActionRestart
	case key.Matches(msg, m.keys.Scores):
		return ActionScores
	default:
		return ActionNone
	}
}
