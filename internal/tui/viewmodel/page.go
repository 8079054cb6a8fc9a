package viewmodel

import (
	"fmt"

	"github.com/Veraticus/tradedash/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Cell is a formatted monetary value and the icon of its currency.
type Cell struct {
	Text string
	Icon string
}

// Row is one transaction formatted for display.
type Row struct {
	ID              string
	Date            string
	Type            string
	Currency        string
	CurrencyIcon    string
	Source          string
	Amount          Cell
	Fee             Cell
	Total           Cell
	HistoricalPrice Cell
	// HistoricalValue is the amount valued at the historical price.
	HistoricalValue string
}

// Values returns the row's cells in column order.
func (r Row) Values() []string {
	return []string{
		r.Date,
		r.Type,
		r.Currency,
		r.Source,
		r.Amount.Text,
		r.Fee.Text,
		r.Total.Text,
		r.HistoricalPrice.Text,
	}
}

// PageView is the rendered projection of one page.
type PageView struct {
	Label     string
	Rows      []Row
	EmptyRows int
	From      int
	To        int
	Count     int
}

// DateLayout is the layout of the Date column.
const DateLayout = "2006-01-02 15:04"

// Paginate returns the half-open range of indices shown on page. The range
// is clamped to [0, n] and may be empty.
func Paginate(n, page, pageSize int) (start, end int) {
	if pageSize <= 0 {
		return 0, 0
	}
	start = min(max(0, page*pageSize), n)
	end = min(start+pageSize, n)
	return start, end
}

// RenderRows sorts records by spec and formats the requested page. Pages
// past the end render no rows and are padded with empty rows up to
// pageSize.
func RenderRows(records []model.Transaction, spec SortSpec, page, pageSize int) PageView {
	sorted := SortTransactions(records, spec)
	start, end := Paginate(len(sorted), page, pageSize)

	title := cases.Title(language.English)
	rows := make([]Row, 0, end-start)
	for _, t := range sorted[start:end] {
		rows = append(rows, FormatRow(t, title))
	}

	view := PageView{
		Rows:      rows,
		EmptyRows: max(0, pageSize) - len(rows),
		Count:     len(sorted),
	}
	if len(rows) > 0 {
		view.From = start + 1
		view.To = end
	}
	view.Label = fmt.Sprintf("%d-%d of %d", view.From, view.To, view.Count)
	return view
}

// FormatRow formats a single transaction.
func FormatRow(t model.Transaction, title cases.Caser) Row {
	row := Row{
		ID:              t.ID,
		Type:            title.String(t.Type),
		Source:          t.Source,
		Amount:          formatCell(t.Amount, t.AmountCurrency),
		Fee:             formatCell(t.Fee, t.FeeCurrency),
		Total:           formatCell(t.Total, t.TotalCurrency),
		HistoricalPrice: formatCell(t.HistoricalPrice, t.HistoricalCurrency),
		HistoricalValue: FormatCurrency(t.HistoricalValue(), t.HistoricalCurrency),
	}
	if !t.Date.IsZero() {
		row.Date = t.Date.Format(DateLayout)
	}
	if t.CurrencyPair.Base != "" {
		row.Currency = t.CurrencyPair.String()
		row.CurrencyIcon = CurrencyIcon(t.CurrencyPair.Base)
	}
	return row
}

func formatCell(amount decimal.Decimal, code string) Cell {
	return Cell{
		Text: FormatCurrency(amount, code),
		Icon: CurrencyIcon(code),
	}
}
