package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"questrpg/internal/tui/focus"
)

// KeyMap holds the global bindings. Screen keys live in their views.
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding
	Logout  key.Binding

	Today     key.Binding
	Goals     key.Binding
	Stats     key.Binding
	Challenge key.Binding

	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Lock   key.Binding
	Boss   key.Binding
	Back   key.Binding
}

// ShouldHandleKey reports whether a global binding may react in mode. While
// typing only ctrl+c quits.
func (k KeyMap) ShouldHandleKey(mode focus.Mode, msg tea.KeyMsg) bool {
	if mode == focus.ModeInput {
		return msg.Type == tea.KeyCtrlC
	}
	return true
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),

		Today: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "today"),
		),
		Goals: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "goals"),
		),
		Stats: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "stats"),
		),
		Challenge: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "boss"),
		),

		// documented here for the help view; handled by the screens
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Lock: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "lock run"),
		),
		Boss: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "defeat boss"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Lock, k.Refresh, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Back},
		{k.Lock, k.Boss, k.Refresh},
		{k.Today, k.Goals, k.Stats, k.Challenge},
		{k.Logout, k.Help, k.Quit},
	}
}
