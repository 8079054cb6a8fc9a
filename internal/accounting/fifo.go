// Package accounting matches disposals against acquisition lots first in,
// first out, and reports realized gains in the user's local currency the way
// they are listed on Form 8949.
package accounting

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/tradedash/internal/model"
	"github.com/shopspring/decimal"
)

// LongTermHolding is the holding period from which a gain is long-term.
const LongTermHolding = 365 * 24 * time.Hour

// Lot is a quantity of one currency acquired at one time.
type Lot struct {
	Date     time.Time
	Quantity decimal.Decimal
	Cost     decimal.Decimal
	Currency string
}

// LineItem is the part of one disposal matched against one lot.
type LineItem struct {
	DateAcquired time.Time
	DateSold     time.Time
	Quantity     decimal.Decimal
	Proceeds     decimal.Decimal
	CostBasis    decimal.Decimal
	Currency     string
	SaleID       string
}

// Gain is proceeds minus cost basis; negative for a loss.
func (l LineItem) Gain() decimal.Decimal {
	return l.Proceeds.Sub(l.CostBasis)
}

// ShortTerm reports whether the lot was held for less than LongTermHolding.
func (l LineItem) ShortTerm() bool {
	return l.DateSold.Sub(l.DateAcquired) < LongTermHolding
}

// Description is the "quantity currency" text of the line item.
func (l LineItem) Description() string {
	return l.Quantity.String() + " " + l.Currency
}

// Period bounds the disposals listed in a report. A zero bound is open.
type Period struct {
	Start time.Time
	End   time.Time
}

// Year returns the calendar year in loc.
func Year(year int, loc *time.Location) Period {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond)}
}

func (p Period) contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}

// Report is the outcome of a FIFO run.
type Report struct {
	// Uncovered is the quantity per currency disposed of without a lot to
	// match it against, e.g. coins received before the records start.
	Uncovered     map[string]decimal.Decimal
	LocalCurrency string
	ShortTerm     []LineItem
	LongTerm      []LineItem
	Open          []Lot
	// Skipped counts records that had no value in the local currency.
	Skipped int
}

// ShortTermGain sums the short-term line items.
func (r *Report) ShortTermGain() decimal.Decimal {
	return sumGains(r.ShortTerm)
}

// LongTermGain sums the long-term line items.
func (r *Report) LongTermGain() decimal.Decimal {
	return sumGains(r.LongTerm)
}

// Totals sums proceeds, cost basis and gain over every line item.
func (r *Report) Totals() (proceeds, basis, gain decimal.Decimal) {
	for _, items := range [][]LineItem{r.ShortTerm, r.LongTerm} {
		for _, item := range items {
			proceeds = proceeds.Add(item.Proceeds)
			basis = basis.Add(item.CostBasis)
		}
	}
	return proceeds, basis, proceeds.Sub(basis)
}

func sumGains(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Gain())
	}
	return total
}

// FIFO replays records in date order. Buys and deposits open lots, sells
// close them oldest first. A trade quoted in another crypto currency also
// disposes of (for buys) or acquires (for sells) the quote currency.
// Withdrawals are transfers and do not realize gains. Records after the
// period end are ignored; disposals before its start consume lots but are
// not listed.
func FIFO(records []model.Transaction, localCurrency string, period Period) *Report {
	l := &ledger{
		local:  strings.ToUpper(localCurrency),
		period: period,
		lots:   make(map[string][]Lot),
		report: &Report{
			LocalCurrency: strings.ToUpper(localCurrency),
			Uncovered:     make(map[string]decimal.Decimal),
		},
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	for _, t := range sorted {
		if !period.End.IsZero() && t.Date.After(period.End) {
			break
		}
		l.apply(t)
	}

	for _, currency := range slices.Sorted(maps.Keys(l.lots)) {
		l.report.Open = append(l.report.Open, l.lots[currency]...)
	}
	return l.report
}

type ledger struct {
	lots   map[string][]Lot
	report *Report
	period Period
	local  string
}

func (l *ledger) apply(t model.Transaction) {
	base := strings.ToUpper(t.AmountCurrency)
	if base == "" {
		base = strings.ToUpper(t.CurrencyPair.Base)
	}
	quote := strings.ToUpper(t.CurrencyPair.Quote)
	if base == "" {
		return
	}

	switch strings.ToLower(t.Type) {
	case model.TypeBuy:
		value, ok := l.valueOf(t)
		if !ok {
			return
		}
		if base != l.local {
			l.acquire(base, t.Date, t.Amount.Abs(), value.Add(l.feeOf(t)))
		}
		if quote != "" && quote != l.local {
			l.dispose(quote, t.Date, t.Total.Abs(), value, t.ID)
		}

	case model.TypeSell:
		value, ok := l.valueOf(t)
		if !ok {
			return
		}
		if base != l.local {
			l.dispose(base, t.Date, t.Amount.Abs(), value.Sub(l.feeOf(t)), t.ID)
		}
		if quote != "" && quote != l.local {
			l.acquire(quote, t.Date, t.Total.Abs(), value)
		}

	case model.TypeDeposit:
		if base == l.local {
			return
		}
		value, ok := l.valueOf(t)
		if !ok {
			return
		}
		l.acquire(base, t.Date, t.Amount.Abs(), value)
	}
}

// valueOf returns the record's value in the local currency: the total when
// it is denominated locally, otherwise amount times the historical price.
func (l *ledger) valueOf(t model.Transaction) (decimal.Decimal, bool) {
	switch {
	case strings.EqualFold(t.TotalCurrency, l.local) && !t.Total.IsZero():
		return t.Total.Abs(), true
	case strings.EqualFold(t.HistoricalCurrency, l.local):
		return t.Amount.Abs().Mul(t.HistoricalPrice), true
	}
	slog.Debug("Skipping record without a local value",
		"id", t.ID,
		"local_currency", l.local,
		"total_currency", t.TotalCurrency,
		"historical_currency", t.HistoricalCurrency)
	l.report.Skipped++
	return decimal.Zero, false
}

func (l *ledger) feeOf(t model.Transaction) decimal.Decimal {
	if strings.EqualFold(t.FeeCurrency, l.local) {
		return t.Fee.Abs()
	}
	return decimal.Zero
}

func (l *ledger) acquire(currency string, date time.Time, qty, cost decimal.Decimal) {
	if !qty.IsPositive() {
		return
	}
	l.lots[currency] = append(l.lots[currency], Lot{
		Date:     date,
		Quantity: qty,
		Cost:     cost,
		Currency: currency,
	})
}

func (l *ledger) dispose(currency string, date time.Time, qty, proceeds decimal.Decimal, saleID string) {
	if !qty.IsPositive() {
		return
	}

	queue := l.lots[currency]
	remaining := qty
	allocated := decimal.Zero

	for remaining.IsPositive() && len(queue) > 0 {
		lot := queue[0]
		take := decimal.Min(lot.Quantity, remaining)

		cost := lot.Cost
		if take.LessThan(lot.Quantity) {
			cost = lot.Cost.Mul(take).Div(lot.Quantity)
			queue[0].Quantity = lot.Quantity.Sub(take)
			queue[0].Cost = lot.Cost.Sub(cost)
		} else {
			queue = queue[1:]
		}
		remaining = remaining.Sub(take)

		share := proceeds.Mul(take).Div(qty)
		if remaining.IsZero() {
			share = proceeds.Sub(allocated)
		}
		allocated = allocated.Add(share)

		l.record(LineItem{
			DateAcquired: lot.Date,
			DateSold:     date,
			Quantity:     take,
			Proceeds:     share,
			CostBasis:    cost,
			Currency:     currency,
			SaleID:       saleID,
		})
	}
	l.lots[currency] = queue

	if remaining.IsPositive() {
		slog.Debug("Disposal exceeds open lots",
			"id", saleID,
			"currency", currency,
			"uncovered", remaining)
		l.report.Uncovered[currency] = l.report.Uncovered[currency].Add(remaining)
	}
}

func (l *ledger) record(item LineItem) {
	if !l.period.contains(item.DateSold) {
		return
	}
	if item.ShortTerm() {
		l.report.ShortTerm = append(l.report.ShortTerm, item)
	} else {
		l.report.LongTerm = append(l.report.LongTerm, item)
	}
}
