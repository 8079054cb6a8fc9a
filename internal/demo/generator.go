// Package demo generates deterministic sample trades for demos and seeding.
package demo

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/tradedash/internal/model"
	"github.com/shopspring/decimal"
)

// Market is a tradable pair with its price at the start of the series.
type Market struct {
	Base       string
	StartPrice decimal.Decimal
}

// DefaultMarkets are the pairs the generator trades.
var DefaultMarkets = []Market{
	{Base: "BTC", StartPrice: decimal.NewFromInt(13500)},
	{Base: "ETH", StartPrice: decimal.NewFromInt(750)},
	{Base: "LTC", StartPrice: decimal.NewFromInt(220)},
	{Base: "XRP", StartPrice: decimal.RequireFromString("2.10")},
}

// DefaultSources are the exchanges trades are attributed to.
var DefaultSources = []string{"gdax", "kraken", "binance", "bitstamp"}

// Generator produces a reproducible series of trades.
type Generator struct {
	Start         time.Time
	QuoteCurrency string
	Markets       []Market
	Sources       []string
	Seed          uint64
	// FeeRate is the fee charged as a fraction of the total.
	FeeRate       decimal.Decimal
}

// NewGenerator returns a generator with the default markets quoted in
// quoteCurrency.
func NewGenerator(seed uint64, quoteCurrency string) *Generator {
	return &Generator{
		Start:         time.Date(2018, 1, 1, 9, 0, 0, 0, time.UTC),
		QuoteCurrency: quoteCurrency,
		Markets:       DefaultMarkets,
		Sources:       DefaultSources,
		Seed:          seed,
		FeeRate:       decimal.RequireFromString("0.0025"),
	}
}

// Generate returns n trades in chronological order. The same seed always
// yields the same trades.
func (g *Generator) Generate(n int) []model.Transaction {
	rng := rand.New(rand.NewPCG(g.Seed, 0x7261646564617368))

	prices := make([]decimal.Decimal, len(g.Markets))
	for i, m := range g.Markets {
		prices[i] = m.StartPrice
	}

	txns := make([]model.Transaction, 0, n)
	date := g.Start
	for i := range n {
		date = date.Add(time.Duration(6+rng.IntN(66)) * time.Hour)

		mi := rng.IntN(len(g.Markets))
		market := g.Markets[mi]

		// Random walk of up to 8% either way.
		move := decimal.NewFromFloat(1 + (rng.Float64()-0.5)*0.16)
		prices[mi] = prices[mi].Mul(move).Round(2)
		price := prices[mi]

		txType := model.TypeBuy
		if rng.IntN(3) == 0 {
			txType = model.TypeSell
		}

		amount := decimal.NewFromFloat(0.05 + rng.Float64()*2).Round(4)
		if price.LessThan(decimal.NewFromInt(10)) {
			amount = amount.Mul(decimal.NewFromInt(500)).Round(2)
		}
		total := amount.Mul(price).Round(2)
		fee := total.Mul(g.FeeRate).Round(2)

		txns = append(txns, model.Transaction{
			ID:                 fmt.Sprintf("demo-%05d", i+1),
			Date:               date,
			Type:               txType,
			CurrencyPair:       model.CurrencyPair{Base: market.Base, Quote: g.QuoteCurrency},
			Source:             g.Sources[rng.IntN(len(g.Sources))],
			Amount:             amount,
			AmountCurrency:     market.Base,
			Fee:                fee,
			FeeCurrency:        g.QuoteCurrency,
			Total:              total,
			TotalCurrency:      g.QuoteCurrency,
			HistoricalPrice:    price,
			HistoricalCurrency: g.QuoteCurrency,
		})
	}

	return txns
}
