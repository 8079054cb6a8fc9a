package tui

import (
	"log/slog"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/Veraticus/tradedash/internal/tui/components"
	"github.com/Veraticus/tradedash/internal/tui/themes"
	"github.com/Veraticus/tradedash/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the main TUI state.
type Model struct {
	theme       themes.Theme
	dataService service.DataService
	lastError   error
	session     service.Session
	help        help.Model
	shell       components.ShellModel
	table       components.TransactionTableModel
	config      Config
	keymap      KeyMap
	route       Route
	width       int
	height      int
	quitting    bool
}

// New creates the root model.
func New(opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := Model{
		theme:       cfg.Theme,
		dataService: cfg.DataService,
		session:     cfg.Session,
		help:        help.New(),
		shell:       components.NewShell(cfg.Title, cfg.Session, cfg.Theme),
		table:       components.NewTransactionTable(cfg.PageSize, cfg.Theme),
		config:      cfg,
		keymap:      DefaultKeyMap(),
		width:       cfg.Width,
		height:      cfg.Height,
	}
	m.table.SetSort(cfg.Sort)
	if err := m.Navigate(cfg.InitialPath); err != nil {
		_ = m.Navigate(components.PathTransactions)
	}
	m.handleResize()
	return m
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.table.Init(), m.fetch())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.NavigateMsg:
		if err := m.Navigate(msg.Path); err != nil {
			slog.Warn("Navigation failed", "path", msg.Path, "error", err)
			m.lastError = err
		} else {
			m.lastError = nil
		}
		m.handleResize()
		return m, nil

	case components.RetryRequestMsg:
		return m, m.fetch()

	case components.TransactionsLoadedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	var consumed bool
	m.shell, cmd, consumed = m.shell.Update(msg)
	if consumed {
		m.handleResize()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Refresh):
		if m.table.State().Loading {
			return m, nil
		}
		return m, tea.Batch(m.table.StartLoading(), m.fetch())
	}

	switch m.route {
	case RouteDashboard:
		if key.Matches(msg, m.keymap.Open) {
			return m, func() tea.Msg {
				return components.NavigateMsg{Path: components.PathTransactions}
			}
		}
		if m.table.State().State() != viewmodel.StateError {
			return m, nil
		}
		// The retry affordance works from the dashboard too.
		fallthrough
	default:
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.route {
	case RouteDashboard:
		content = m.dashboardView()
	default:
		content = m.table.View()
	}

	if m.lastError != nil {
		content += "\n" + m.theme.StatusError.Render(common.UserMessage(m.lastError))
	}

	return m.shell.View(content) + "\n" + m.help.View(m.keymap)
}

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool {
	return m.table.State().Loading
}

// Err returns the error of the last fetch, if any.
func (m Model) Err() error {
	return m.table.State().Err
}

func (m Model) fetch() tea.Cmd {
	return fetchTransactions(m.dataService, m.config.FetchTimeout, m.config.Retry)
}

func (m *Model) handleResize() {
	m.shell.SetWidth(m.width)
	m.table.Resize(m.shell.ContentWidth())
	m.help.Width = m.width
}
