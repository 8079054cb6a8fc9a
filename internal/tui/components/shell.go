package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tradedash/internal/service"
	"github.com/Veraticus/tradedash/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Routes shown in the drawer.
const (
	PathDashboard    = "/"
	PathTransactions = "/transactions"
)

// DefaultTitle is the top bar title when none is configured.
const DefaultTitle = "Tradebot"

const drawerWidth = 22

// NavItem is a drawer entry.
type NavItem struct {
	Title string
	Path  string
}

// DefaultNavItems are the drawer entries in display order.
var DefaultNavItems = []NavItem{
	{Title: "Dashboard", Path: PathDashboard},
	{Title: "Transactions", Path: PathTransactions},
}

// ShellModel is the top bar and navigation drawer around every view.
type ShellModel struct {
	theme   themes.Theme
	keys    ShellKeyMap
	title   string
	active  string
	session service.Session
	items   []NavItem
	cursor  int
	width   int
	open    bool
}

// NewShell creates a shell with the drawer closed.
func NewShell(title string, session service.Session, theme themes.Theme) ShellModel {
	if title == "" {
		title = DefaultTitle
	}
	return ShellModel{
		theme:   theme,
		keys:    DefaultShellKeyMap(),
		title:   title,
		active:  PathDashboard,
		session: session,
		items:   DefaultNavItems,
		width:   80,
	}
}

// Toggle flips the drawer.
func (m *ShellModel) Toggle() {
	m.SetDrawer(!m.open)
}

// SetDrawer opens or closes the drawer.
func (m *ShellModel) SetDrawer(open bool) {
	m.open = open
	if open {
		m.cursor = m.activeIndex()
	}
}

// DrawerOpen reports whether the drawer is shown.
func (m ShellModel) DrawerOpen() bool {
	return m.open
}

// ActivateTitle returns a command that navigates to the dashboard.
func (m ShellModel) ActivateTitle() tea.Cmd {
	return navigate(PathDashboard)
}

// SetActive marks the drawer entry for path as the current view.
func (m *ShellModel) SetActive(path string) {
	m.active = path
}

// Active returns the path of the current view.
func (m ShellModel) Active() string {
	return m.active
}

// SetWidth sets the rendering width.
func (m *ShellModel) SetWidth(width int) {
	m.width = width
}

// Keys returns the shell bindings.
func (m ShellModel) Keys() ShellKeyMap {
	return m.keys
}

// Update handles drawer keys. The returned bool reports whether the key was
// consumed by the shell.
func (m ShellModel) Update(msg tea.Msg) (ShellModel, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, m.keys.Toggle):
		m.Toggle()
		return m, nil, true
	case key.Matches(keyMsg, m.keys.Home):
		m.SetDrawer(false)
		return m, m.ActivateTitle(), true
	}

	if !m.open {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, m.keys.Close):
		m.SetDrawer(false)
	case key.Matches(keyMsg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(keyMsg, m.keys.Down):
		m.cursor = min(m.cursor+1, len(m.items)-1)
	case key.Matches(keyMsg, m.keys.Open):
		item := m.items[m.cursor]
		m.SetDrawer(false)
		return m, navigate(item.Path), true
	}

	// An open drawer is modal.
	return m, nil, true
}

// View renders the top bar, and the drawer beside content when open.
func (m ShellModel) View(content string) string {
	header := m.renderHeader()
	if !m.open {
		return lipgloss.JoinVertical(lipgloss.Left, header, content)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderDrawer(), content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// ContentWidth is the width left for the view beside the drawer.
func (m ShellModel) ContentWidth() int {
	if m.open {
		return max(0, m.width-drawerWidth)
	}
	return m.width
}

func (m ShellModel) renderHeader() string {
	menu := "☰"
	if m.open {
		menu = "✕"
	}
	left := fmt.Sprintf("%s  %s", menu, m.theme.HeaderTitle.Render(m.title))

	var info string
	if m.session.User.Username != "" {
		info = fmt.Sprintf("%s · %s", m.session.User.Username, m.session.LocalCurrency())
	} else {
		info = m.session.LocalCurrency()
	}
	right := m.theme.HeaderInfo.Render(info)

	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return m.theme.HeaderBar.
		Width(m.width).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (m ShellModel) renderDrawer() string {
	lines := make([]string, 0, len(m.items))
	for i, item := range m.items {
		prefix := "  "
		if i == m.cursor {
			prefix = "› "
		}
		style := m.theme.DrawerItem
		if item.Path == m.active {
			style = m.theme.DrawerActive
		}
		lines = append(lines, prefix+style.Render(item.Title))
	}
	return m.theme.Drawer.
		Width(drawerWidth).
		Render(strings.Join(lines, "\n"))
}

func (m ShellModel) activeIndex() int {
	for i, item := range m.items {
		if item.Path == m.active {
			return i
		}
	}
	return 0
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path}
	}
}
