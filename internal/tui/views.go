package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/tui/themes"
	"github.com/Veraticus/tradedash/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var knownTypes = []string{model.TypeBuy, model.TypeSell, model.TypeDeposit, model.TypeWithdrawal}

// dashboardView renders the summary shown at "/".
func (m Model) dashboardView() string {
	state := m.table.State()
	switch state.State() {
	case viewmodel.StateLoading:
		return m.theme.StatusPending.Render("Loading transactions...")
	case viewmodel.StateError:
		return m.theme.RoundedBox.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.StatusError.Render("Failed to load transactions"),
			m.theme.Normal.Render(common.UserMessage(state.Err)),
			"",
			m.theme.Footer.Render("Press r to retry"),
		))
	}

	s := viewmodel.Summarize(state.Records, m.session.LocalCurrency())
	if s.Count == 0 {
		return m.theme.RoundedBox.Render(m.theme.Normal.Render("No transactions yet."))
	}

	title := cases.Title(language.English)
	types := make([]string, 0, len(s.ByType))
	for _, t := range knownTypes {
		if n := s.ByType[t]; n > 0 {
			types = append(types, fmt.Sprintf("%s %d", title.String(t), n))
		}
	}
	for t, n := range s.ByType {
		if !slices.Contains(knownTypes, t) {
			types = append(types, fmt.Sprintf("%s %d", title.String(t), n))
		}
	}

	overview := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Overview"),
		fmt.Sprintf("Transactions   %d (%s)", s.Count, strings.Join(types, ", ")),
		fmt.Sprintf("Period         %s to %s", s.First.Format("2006-01-02"), s.Last.Format("2006-01-02")),
		fmt.Sprintf("Net invested   %s", s.Invested),
		fmt.Sprintf("Fees paid      %s", s.Fees),
		fmt.Sprintf("Realized       %s short-term, %s long-term (FIFO)", s.ShortTermGain, s.LongTermGain),
	)
	if len(s.Uncovered) > 0 {
		overview = lipgloss.JoinVertical(
			lipgloss.Left,
			overview,
			m.theme.StatusError.Render("Sold without a matching buy: "+strings.Join(s.Uncovered, ", ")),
		)
	}

	holdings := make([]string, 0, len(s.Holdings)+1)
	holdings = append(holdings, m.theme.Title.Render("Holdings"))
	for _, h := range s.Holdings {
		holdings = append(holdings, fmt.Sprintf("%s %-5s %s", themes.GetCurrencyGlyph(h.Currency), h.Currency, h.Text))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.RoundedBox.Render(overview),
		m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, holdings...)),
		m.theme.Footer.Render("Press enter to open the transaction table"),
	)
}
