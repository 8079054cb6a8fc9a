package viewmodel

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/tradedash/internal/accounting"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/shopspring/decimal"
)

// Holding is the net amount of one currency across all records.
type Holding struct {
	Amount   decimal.Decimal
	Currency string
	Text     string
	Icon     string
}

// Summary backs the dashboard view.
type Summary struct {
	First    time.Time
	Last     time.Time
	Fees     string
	Invested string
	// Realized gains matched first in, first out, by holding period.
	ShortTermGain string
	LongTermGain  string
	Uncovered     []string
	Holdings []Holding
	ByType   map[string]int
	Count    int
}

// Summarize aggregates records. Fees and invested totals only count values
// denominated in localCurrency.
func Summarize(records []model.Transaction, localCurrency string) Summary {
	localCurrency = strings.ToUpper(localCurrency)
	s := Summary{
		ByType: make(map[string]int),
		Count:  len(records),
	}

	fees := decimal.Zero
	invested := decimal.Zero
	net := make(map[string]decimal.Decimal)

	for _, t := range records {
		s.ByType[t.Type]++

		if !t.Date.IsZero() {
			if s.First.IsZero() || t.Date.Before(s.First) {
				s.First = t.Date
			}
			if t.Date.After(s.Last) {
				s.Last = t.Date
			}
		}

		if strings.EqualFold(t.FeeCurrency, localCurrency) {
			fees = fees.Add(t.Fee)
		}

		code := strings.ToUpper(t.AmountCurrency)
		if code == "" {
			code = t.CurrencyPair.Base
		}
		if code == "" {
			continue
		}

		switch t.Type {
		case model.TypeBuy, model.TypeDeposit:
			net[code] = net[code].Add(t.Amount)
			if t.Type == model.TypeBuy && strings.EqualFold(t.TotalCurrency, localCurrency) {
				invested = invested.Add(t.Total.Abs())
			}
		case model.TypeSell, model.TypeWithdrawal:
			net[code] = net[code].Sub(t.Amount)
			if t.Type == model.TypeSell && strings.EqualFold(t.TotalCurrency, localCurrency) {
				invested = invested.Sub(t.Total.Abs())
			}
		}
	}

	s.Fees = FormatCurrency(fees, localCurrency)
	s.Invested = FormatCurrency(invested, localCurrency)

	for code, amount := range net {
		s.Holdings = append(s.Holdings, Holding{
			Amount:   amount,
			Currency: code,
			Text:     FormatCurrency(amount, code),
			Icon:     CurrencyIcon(code),
		})
	}
	slices.SortFunc(s.Holdings, func(a, b Holding) int {
		return strings.Compare(a.Currency, b.Currency)
	})

	gains := accounting.FIFO(records, localCurrency, accounting.Period{})
	s.ShortTermGain = FormatCurrency(gains.ShortTermGain(), localCurrency)
	s.LongTermGain = FormatCurrency(gains.LongTermGain(), localCurrency)
	for _, code := range slices.Sorted(maps.Keys(gains.Uncovered)) {
		s.Uncovered = append(s.Uncovered, FormatCurrency(gains.Uncovered[code], code))
	}

	return s
}
