package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/tui/themes"
	"github.com/Veraticus/tradedash/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TransactionTableModel renders the paginated, sortable transaction table.
type TransactionTableModel struct {
	theme   themes.Theme
	state   *viewmodel.TableState
	keys    TableKeyMap
	view    viewmodel.PageView
	spinner spinner.Model
	table   table.Model
	column  viewmodel.Column
	width   int
}

// NewTransactionTable creates a table in the loading state.
func NewTransactionTable(pageSize int, theme themes.Theme) TransactionTableModel {
	state := viewmodel.NewTableState(pageSize)

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(state.PageSize+1),
	)

	s := table.DefaultStyles()
	s.Header = theme.TableHeader
	s.Cell = s.Cell.Foreground(theme.Foreground)
	s.Selected = theme.Selected
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	m := TransactionTableModel{
		theme:   theme,
		state:   state,
		keys:    DefaultTableKeyMap(),
		spinner: sp,
		table:   t,
		column:  viewmodel.ColumnDate,
		width:   120,
	}
	m.refresh()
	return m
}

// State exposes the underlying view state.
func (m TransactionTableModel) State() *viewmodel.TableState {
	return m.state
}

// SetSort replaces the active sort, e.g. with a configured initial order.
func (m *TransactionTableModel) SetSort(spec viewmodel.SortSpec) {
	m.state.Sort = spec
	m.column = spec.Column
	m.refresh()
}

// Page returns the currently rendered page.
func (m TransactionTableModel) Page() viewmodel.PageView {
	return m.view
}

// Keys returns the table bindings.
func (m TransactionTableModel) Keys() TableKeyMap {
	return m.keys
}

// Init starts the loading spinner.
func (m TransactionTableModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// StartLoading puts the table back into the loading state.
func (m *TransactionTableModel) StartLoading() tea.Cmd {
	m.state.StartLoading()
	return m.spinner.Tick
}

// Update handles messages.
func (m TransactionTableModel) Update(msg tea.Msg) (TransactionTableModel, tea.Cmd) {
	switch msg := msg.(type) {
	case TransactionsLoadedMsg:
		m.state.Loaded(msg.Response, msg.Err)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m TransactionTableModel) handleKey(msg tea.KeyMsg) (TransactionTableModel, tea.Cmd) {
	switch m.state.State() {
	case viewmodel.StateLoading:
		return m, nil
	case viewmodel.StateError:
		if key.Matches(msg, m.keys.Retry) {
			cmd := m.StartLoading()
			return m, tea.Batch(cmd, func() tea.Msg { return RetryRequestMsg{} })
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.SortByNumber):
		m.state.SortBy(viewmodel.Columns[int(msg.Runes[0]-'1')])
		m.column = m.state.Sort.Column
	case key.Matches(msg, m.keys.NextColumn):
		m.column = viewmodel.Columns[(int(m.column)+1)%len(viewmodel.Columns)]
	case key.Matches(msg, m.keys.PrevColumn):
		m.column = viewmodel.Columns[(int(m.column)+len(viewmodel.Columns)-1)%len(viewmodel.Columns)]
	case key.Matches(msg, m.keys.SortColumn):
		m.state.SortBy(m.column)
	case key.Matches(msg, m.keys.PrevPage):
		m.state.PrevPage()
		m.table.SetCursor(0)
	case key.Matches(msg, m.keys.NextPage):
		m.state.NextPage()
		m.table.SetCursor(0)
	case key.Matches(msg, m.keys.PageSize):
		m.state.CyclePageSize()
		m.table.SetCursor(0)
		m.table.SetHeight(m.state.PageSize + 1)
	case key.Matches(msg, m.keys.ToggleSelect):
		if row, ok := m.cursorRow(); ok {
			m.state.ToggleSelect(row.ID)
		}
	case key.Matches(msg, m.keys.SelectPage):
		m.state.SelectPage()
	case key.Matches(msg, m.keys.ClearSelect):
		m.state.ClearSelection()
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	m.refresh()
	return m, nil
}

// View renders the table.
func (m TransactionTableModel) View() string {
	switch m.state.State() {
	case viewmodel.StateLoading:
		return m.theme.StatusPending.Render(m.spinner.View() + " Loading transactions...")
	case viewmodel.StateError:
		return m.renderError()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.table.View(),
		m.renderDetail(),
		m.renderFooter(),
	)
}

// Resize updates the component width.
func (m *TransactionTableModel) Resize(width int) {
	m.width = width
	m.updateColumns()
}

func (m TransactionTableModel) renderError() string {
	msg := common.UserMessage(m.state.Err)
	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusError.Render("Failed to load transactions"),
		m.theme.Normal.Render(msg),
		"",
		m.theme.Footer.Render("Press r to retry"),
	))
}

func (m TransactionTableModel) renderHeader() string {
	status := fmt.Sprintf("%d transactions", m.view.Count)
	if n := m.state.SelectedCount(); n > 0 {
		status += fmt.Sprintf(" (%d selected)", n)
	}
	return m.theme.Bold.Render("Transactions") + "  " + m.theme.Footer.Render(status)
}

// renderDetail shows the amount valued at the historical price for the row
// under the cursor.
func (m TransactionTableModel) renderDetail() string {
	row, ok := m.cursorRow()
	if !ok {
		return ""
	}
	return m.theme.Footer.Render(fmt.Sprintf("%s  %s ≈ %s at %s",
		row.ID, row.Amount.Text, row.HistoricalValue, row.HistoricalPrice.Text))
}

func (m TransactionTableModel) renderFooter() string {
	pager := fmt.Sprintf("Rows per page: %d   %s   page %d/%d",
		m.state.PageSize, m.view.Label, min(m.state.Page+1, m.state.PageCount()), m.state.PageCount())

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, fmt.Sprintf("[%s] %s", b.Help().Key, b.Help().Desc))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Footer.Render(pager),
		m.theme.Footer.Render(strings.Join(hints, "  ")),
	)
}

func (m TransactionTableModel) cursorRow() (viewmodel.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Rows) {
		return viewmodel.Row{}, false
	}
	return m.view.Rows[i], true
}

// refresh recomputes the page projection and pushes it into the table.
func (m *TransactionTableModel) refresh() {
	m.view = m.state.View()
	m.updateColumns()

	rows := make([]table.Row, 0, len(m.view.Rows)+m.view.EmptyRows)
	for _, r := range m.view.Rows {
		values := r.Values()
		if r.Currency != "" {
			values[2] = themes.GetCurrencyGlyph(strings.SplitN(r.Currency, "-", 2)[0]) + " " + r.Currency
		}
		mark := "  "
		if m.state.Selected(r.ID) {
			mark = "● "
		}
		values[0] = mark + values[0]
		rows = append(rows, values)
	}
	for range m.view.EmptyRows {
		rows = append(rows, make(table.Row, len(viewmodel.Columns)))
	}
	m.table.SetRows(rows)
}

var columnWeights = map[viewmodel.Column]float64{
	viewmodel.ColumnDate:            0.14,
	viewmodel.ColumnType:            0.09,
	viewmodel.ColumnCurrency:        0.11,
	viewmodel.ColumnSource:          0.10,
	viewmodel.ColumnAmount:          0.14,
	viewmodel.ColumnFee:             0.12,
	viewmodel.ColumnTotal:           0.15,
	viewmodel.ColumnHistoricalPrice: 0.15,
}

// updateColumns sizes the columns to the width and marks the sort and
// cursor columns in their titles.
func (m *TransactionTableModel) updateColumns() {
	available := max(96, m.width-4)

	columns := make([]table.Column, 0, len(viewmodel.Columns))
	for _, c := range viewmodel.Columns {
		title := c.String()
		if c == m.state.Sort.Column {
			title += " " + m.state.Sort.Direction.Arrow()
		}
		if c == m.column {
			title = "›" + title
		}
		columns = append(columns, table.Column{
			Title: title,
			Width: max(8, int(float64(available)*columnWeights[c])),
		})
	}
	m.table.SetColumns(columns)
}
