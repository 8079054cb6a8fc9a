package components

import "github.com/charmbracelet/bubbles/key"

// TableKeyMap holds the transaction table bindings.
type TableKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	PageSize     key.Binding
	NextColumn   key.Binding
	PrevColumn   key.Binding
	SortColumn   key.Binding
	SortByNumber key.Binding
	ToggleSelect key.Binding
	SelectPage   key.Binding
	ClearSelect  key.Binding
	Retry        key.Binding
}

// DefaultTableKeyMap returns the default table bindings.
func DefaultTableKeyMap() TableKeyMap {
	return TableKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[/←", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]/→", "next page"),
		),
		PageSize: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "rows per page"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next column"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev column"),
		),
		SortColumn: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		SortByNumber: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "sort by column"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "select"),
		),
		SelectPage: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select page"),
		),
		ClearSelect: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "clear selection"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k TableKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SortByNumber, k.PrevPage, k.NextPage, k.PageSize, k.ToggleSelect}
}

// FullHelp returns every binding grouped by purpose.
func (k TableKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.PageSize},
		{k.SortByNumber, k.NextColumn, k.PrevColumn, k.SortColumn},
		{k.ToggleSelect, k.SelectPage, k.ClearSelect, k.Retry},
	}
}

// ShellKeyMap holds the navigation drawer bindings.
type ShellKeyMap struct {
	Toggle key.Binding
	Close  key.Binding
	Home   key.Binding
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
}

// DefaultShellKeyMap returns the default shell bindings.
func DefaultShellKeyMap() ShellKeyMap {
	return ShellKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "menu"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),
		Home: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "dashboard"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
	}
}
