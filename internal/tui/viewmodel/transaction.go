package viewmodel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/tradedash/internal/model"
)

// Column identifies one of the transaction table columns.
type Column int

const (
	// ColumnDate sorts chronologically.
	ColumnDate Column = iota
	// ColumnType sorts by transaction type.
	ColumnType
	// ColumnCurrency sorts by currency pair.
	ColumnCurrency
	// ColumnSource sorts by exchange or wallet name.
	ColumnSource
	// ColumnAmount sorts by amount.
	ColumnAmount
	// ColumnFee sorts by fee.
	ColumnFee
	// ColumnTotal sorts by total.
	ColumnTotal
	// ColumnHistoricalPrice sorts by the price at the time of the trade.
	ColumnHistoricalPrice
)

// Columns lists every column in display order.
var Columns = []Column{
	ColumnDate,
	ColumnType,
	ColumnCurrency,
	ColumnSource,
	ColumnAmount,
	ColumnFee,
	ColumnTotal,
	ColumnHistoricalPrice,
}

var columnLabels = map[Column]string{
	ColumnDate:            "Date",
	ColumnType:            "Type",
	ColumnCurrency:        "Currency",
	ColumnSource:          "Source",
	ColumnAmount:          "Amount",
	ColumnFee:             "Fee",
	ColumnTotal:           "Total",
	ColumnHistoricalPrice: "Historical Price",
}

// String returns the column header label.
func (c Column) String() string {
	if label, ok := columnLabels[c]; ok {
		return label
	}
	return "Unknown"
}

// Numeric reports whether the column holds a monetary value.
func (c Column) Numeric() bool {
	return c >= ColumnAmount && c <= ColumnHistoricalPrice
}

// ParseColumn resolves a column from its label or a snake_case field name
// such as "historical_price".
func ParseColumn(name string) (Column, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
	for _, c := range Columns {
		if strings.ToLower(c.String()) == normalized {
			return c, true
		}
	}
	return 0, false
}

// SortDirection represents sort direction.
type SortDirection int

const (
	// Ascending sorts smallest first.
	Ascending SortDirection = iota
	// Descending sorts largest first.
	Descending
)

// Arrow returns the indicator shown next to the active column header.
func (d SortDirection) Arrow() string {
	if d == Descending {
		return "▼"
	}
	return "▲"
}

// SortSpec is the active sort column and direction. With FetchOrder set the
// column only marks the header and records keep the order they arrived in.
type SortSpec struct {
	Column     Column
	Direction  SortDirection
	FetchOrder bool
}

// DefaultSort is the spec before the user picks a column: Date is marked
// ascending but records are shown in fetch order.
func DefaultSort() SortSpec {
	return SortSpec{Column: ColumnDate, Direction: Ascending, FetchOrder: true}
}

// ParseSort reads a sort setting such as "amount", "date:asc" or
// "historical_price:desc". An empty string yields DefaultSort; a column
// without a direction sorts descending, as if its header had been activated.
func ParseSort(value string) (SortSpec, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultSort(), nil
	}

	name, dir, hasDir := strings.Cut(value, ":")
	col, ok := ParseColumn(name)
	if !ok {
		return SortSpec{}, fmt.Errorf("unknown sort column %q", name)
	}

	spec := SortSpec{Column: col, Direction: Descending}
	if hasDir {
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "asc":
			spec.Direction = Ascending
		case "desc":
		default:
			return SortSpec{}, fmt.Errorf("unknown sort direction %q", dir)
		}
	}
	return spec, nil
}

// Toggle returns the spec after the user activates column c. Activating the
// active column flips the direction; any other column starts descending.
func (s SortSpec) Toggle(c Column) SortSpec {
	if s.Column == c {
		if s.Direction == Ascending {
			return SortSpec{Column: c, Direction: Descending}
		}
		return SortSpec{Column: c, Direction: Ascending}
	}
	return SortSpec{Column: c, Direction: Descending}
}

// SortTransactions returns a sorted copy of records, or a plain copy when
// spec.FetchOrder is set. The input slice is not modified and records with equal keys keep their input order in both
// directions.
func SortTransactions(records []model.Transaction, spec SortSpec) []model.Transaction {
	sorted := slices.Clone(records)
	if spec.FetchOrder {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		c := compareBy(spec.Column, a, b)
		if spec.Direction == Descending {
			return -c
		}
		return c
	})
	return sorted
}

func compareBy(col Column, a, b model.Transaction) int {
	switch col {
	case ColumnDate:
		return a.Date.Compare(b.Date)
	case ColumnType:
		return strings.Compare(a.Type, b.Type)
	case ColumnCurrency:
		return strings.Compare(a.CurrencyPair.String(), b.CurrencyPair.String())
	case ColumnSource:
		return strings.Compare(a.Source, b.Source)
	case ColumnAmount:
		return a.Amount.Cmp(b.Amount)
	case ColumnFee:
		return a.Fee.Cmp(b.Fee)
	case ColumnTotal:
		return a.Total.Cmp(b.Total)
	case ColumnHistoricalPrice:
		return a.HistoricalPrice.Cmp(b.HistoricalPrice)
	default:
		return 0
	}
}
