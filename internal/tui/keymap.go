package tui

import (
	"github.com/Veraticus/tradedash/internal/tui/components"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the application-wide shortcuts.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Open      key.Binding
	Refresh   key.Binding

	Shell components.ShellKeyMap
	Table components.TableKeyMap
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open transactions"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Shell: components.DefaultShellKeyMap(),
		Table: components.DefaultTableKeyMap(),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Shell.Toggle, k.Shell.Home, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	groups := [][]key.Binding{
		{k.Shell.Toggle, k.Shell.Close, k.Shell.Home, k.Open},
		{k.Refresh, k.Help, k.Quit, k.ForceQuit},
	}
	return append(groups, k.Table.FullHelp()...)
}
