// Package model defines the records tradedash works with.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types recorded by the backend.
const (
	TypeBuy        = "buy"
	TypeSell       = "sell"
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
)

// ErrInvalidCurrencyPair is returned when a pair cannot be parsed.
var ErrInvalidCurrencyPair = errors.New("invalid currency pair")

// CurrencyPair is a market such as BTC-USD.
type CurrencyPair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// ParseCurrencyPair parses "BASE-QUOTE". A bare symbol is quoted in
// localCurrency.
func ParseCurrencyPair(s, localCurrency string) (CurrencyPair, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CurrencyPair{}, fmt.Errorf("%w: empty", ErrInvalidCurrencyPair)
	}

	base, quote, found := strings.Cut(s, "-")
	if !found {
		if localCurrency == "" {
			return CurrencyPair{}, fmt.Errorf("%w: %q has no quote currency", ErrInvalidCurrencyPair, s)
		}
		quote = localCurrency
	}
	if base == "" || quote == "" || strings.Contains(quote, "-") {
		return CurrencyPair{}, fmt.Errorf("%w: %q", ErrInvalidCurrencyPair, s)
	}

	return CurrencyPair{
		Base:  strings.ToUpper(base),
		Quote: strings.ToUpper(quote),
	}, nil
}

// String returns the pair as BASE-QUOTE.
func (p CurrencyPair) String() string {
	return p.Base + "-" + p.Quote
}

// Transaction is a single trade or transfer as delivered by the data service.
// Every monetary field carries its own currency code.
type Transaction struct {
	Date               time.Time       `json:"date"`
	Amount             decimal.Decimal `json:"amount"`
	Fee                decimal.Decimal `json:"fee"`
	Total              decimal.Decimal `json:"total"`
	HistoricalPrice    decimal.Decimal `json:"historical_price"`
	CurrencyPair       CurrencyPair    `json:"currency_pair"`
	ID                 string          `json:"id"`
	Type               string          `json:"type"`
	Source             string          `json:"source"`
	AmountCurrency     string          `json:"amount_currency"`
	FeeCurrency        string          `json:"fee_currency"`
	TotalCurrency      string          `json:"total_currency"`
	HistoricalCurrency string          `json:"historical_currency"`
}

// HistoricalValue is the amount valued at the historical price, expressed in
// the historical currency.
func (t Transaction) HistoricalValue() decimal.Decimal {
	return t.Amount.Mul(t.HistoricalPrice)
}
