package accounting

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/tradedash/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// trade builds a record on pair valued in USD at price per base unit.
func trade(id, date, typ, pair, amount, total, fee, price string) model.Transaction {
	base, quote, _ := strings.Cut(pair, "-")
	return model.Transaction{
		ID:                 id,
		Date:               day(date),
		Type:               typ,
		CurrencyPair:       model.CurrencyPair{Base: base, Quote: quote},
		Amount:             dec(amount),
		AmountCurrency:     base,
		Total:              dec(total),
		TotalCurrency:      quote,
		Fee:                dec(fee),
		FeeCurrency:        quote,
		HistoricalPrice:    dec(price),
		HistoricalCurrency: "USD",
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestFIFO_PartialLot(t *testing.T) {
	report := FIFO([]model.Transaction{
		trade("sell-1", "2017-06-01", model.TypeSell, "BTC-USD", "0.5", "1500", "5", "3000"),
		trade("buy-1", "2017-01-01", model.TypeBuy, "BTC-USD", "1", "1000", "10", "1000"),
	}, "usd", Period{})

	require.Len(t, report.ShortTerm, 1)
	assert.Empty(t, report.LongTerm)

	item := report.ShortTerm[0]
	assert.Equal(t, "sell-1", item.SaleID)
	assert.Equal(t, "0.5 BTC", item.Description())
	assert.Equal(t, day("2017-01-01"), item.DateAcquired)
	assert.Equal(t, day("2017-06-01"), item.DateSold)
	assertDecimal(t, "1495", item.Proceeds)
	assertDecimal(t, "505", item.CostBasis)
	assertDecimal(t, "990", item.Gain())

	require.Len(t, report.Open, 1)
	assertDecimal(t, "0.5", report.Open[0].Quantity)
	assertDecimal(t, "505", report.Open[0].Cost)
	assert.Empty(t, report.Uncovered)
}

func TestFIFO_SpansLotsAndHoldingPeriods(t *testing.T) {
	report := FIFO([]model.Transaction{
		trade("buy-1", "2016-01-01", model.TypeBuy, "BTC-USD", "1", "400", "0", "400"),
		trade("buy-2", "2017-06-01", model.TypeBuy, "BTC-USD", "1", "2500", "0", "2500"),
		trade("sell-1", "2017-12-01", model.TypeSell, "BTC-USD", "1.5", "15000", "0", "10000"),
	}, "USD", Period{})

	require.Len(t, report.LongTerm, 1)
	require.Len(t, report.ShortTerm, 1)

	long := report.LongTerm[0]
	assertDecimal(t, "1", long.Quantity)
	assertDecimal(t, "400", long.CostBasis)
	assertDecimal(t, "10000", long.Proceeds)
	assert.False(t, long.ShortTerm())

	short := report.ShortTerm[0]
	assertDecimal(t, "0.5", short.Quantity)
	assertDecimal(t, "1250", short.CostBasis)
	assertDecimal(t, "5000", short.Proceeds)

	assertDecimal(t, "9600", report.LongTermGain())
	assertDecimal(t, "3750", report.ShortTermGain())

	proceeds, basis, gain := report.Totals()
	assertDecimal(t, "15000", proceeds)
	assertDecimal(t, "1650", basis)
	assertDecimal(t, "13350", gain)
}

func TestFIFO_ProceedsSplitSumsToTotal(t *testing.T) {
	report := FIFO([]model.Transaction{
		trade("buy-1", "2017-01-01", model.TypeBuy, "BTC-USD", "1", "100", "0", "100"),
		trade("buy-2", "2017-01-02", model.TypeBuy, "BTC-USD", "1", "100", "0", "100"),
		trade("buy-3", "2017-01-03", model.TypeBuy, "BTC-USD", "1", "100", "0", "100"),
		trade("sell-1", "2017-02-01", model.TypeSell, "BTC-USD", "3", "1000", "0", "333.33"),
	}, "USD", Period{})

	require.Len(t, report.ShortTerm, 3)
	proceeds, basis, _ := report.Totals()
	assertDecimal(t, "1000", proceeds)
	assertDecimal(t, "300", basis)
	assert.Empty(t, report.Open)
}

func TestFIFO_CryptoQuotedTrade(t *testing.T) {
	report := FIFO([]model.Transaction{
		trade("buy-btc", "2017-01-01", model.TypeBuy, "BTC-USD", "1", "5000", "0", "5000"),
		// 10 ETH for 0.5 BTC, ETH worth 300 USD at the time.
		trade("buy-eth", "2017-03-01", model.TypeBuy, "ETH-BTC", "10", "0.5", "0", "300"),
		trade("sell-eth", "2017-04-01", model.TypeSell, "ETH-USD", "10", "4000", "0", "400"),
	}, "USD", Period{})

	require.Len(t, report.ShortTerm, 2)

	btc := report.ShortTerm[0]
	assert.Equal(t, "BTC", btc.Currency)
	assert.Equal(t, "buy-eth", btc.SaleID)
	assertDecimal(t, "0.5", btc.Quantity)
	assertDecimal(t, "3000", btc.Proceeds)
	assertDecimal(t, "2500", btc.CostBasis)

	eth := report.ShortTerm[1]
	assert.Equal(t, "ETH", eth.Currency)
	assertDecimal(t, "3000", eth.CostBasis)
	assertDecimal(t, "1000", eth.Gain())

	require.Len(t, report.Open, 1)
	assert.Equal(t, "BTC", report.Open[0].Currency)
	assertDecimal(t, "0.5", report.Open[0].Quantity)
}

func TestFIFO_DepositsAndWithdrawals(t *testing.T) {
	deposit := trade("dep-1", "2017-01-01", model.TypeDeposit, "LTC-USD", "2", "0", "0", "50")
	withdrawal := trade("wd-1", "2017-02-01", model.TypeWithdrawal, "LTC-USD", "1", "0", "0", "60")
	fiat := trade("dep-usd", "2017-01-01", model.TypeDeposit, "USD-USD", "1000", "1000", "0", "1")

	report := FIFO([]model.Transaction{
		deposit,
		withdrawal,
		fiat,
		trade("sell-1", "2017-03-01", model.TypeSell, "LTC-USD", "2", "200", "0", "100"),
	}, "USD", Period{})

	require.Len(t, report.ShortTerm, 1)
	assertDecimal(t, "100", report.ShortTerm[0].CostBasis)
	assertDecimal(t, "100", report.ShortTerm[0].Gain())
	assert.Empty(t, report.Open)
}

func TestFIFO_Uncovered(t *testing.T) {
	report := FIFO([]model.Transaction{
		trade("buy-1", "2017-01-01", model.TypeBuy, "BTC-USD", "0.25", "250", "0", "1000"),
		trade("sell-1", "2017-02-01", model.TypeSell, "BTC-USD", "1", "2000", "0", "2000"),
	}, "USD", Period{})

	require.Len(t, report.ShortTerm, 1)
	assertDecimal(t, "0.25", report.ShortTerm[0].Quantity)
	assertDecimal(t, "500", report.ShortTerm[0].Proceeds)
	assertDecimal(t, "0.75", report.Uncovered["BTC"])
}

func TestFIFO_SkipsRecordsWithoutLocalValue(t *testing.T) {
	eur := trade("buy-1", "2017-01-01", model.TypeBuy, "BTC-EUR", "1", "900", "0", "900")
	eur.HistoricalCurrency = "EUR"

	report := FIFO([]model.Transaction{eur}, "USD", Period{})

	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Open)
}

func TestFIFO_Period(t *testing.T) {
	records := []model.Transaction{
		trade("buy-1", "2016-01-01", model.TypeBuy, "BTC-USD", "2", "800", "0", "400"),
		trade("sell-1", "2016-06-01", model.TypeSell, "BTC-USD", "1", "600", "0", "600"),
		trade("sell-2", "2017-03-01", model.TypeSell, "BTC-USD", "0.5", "600", "0", "1200"),
		trade("buy-2", "2018-01-02", model.TypeBuy, "BTC-USD", "1", "15000", "0", "15000"),
	}

	tests := []struct {
		name      string
		period    Period
		wantSales []string
		wantOpen  string
	}{
		{
			name:      "unbounded",
			wantSales: []string{"sell-1", "sell-2"},
			wantOpen:  "1.5",
		},
		{
			name:      "single year",
			period:    Year(2017, time.UTC),
			wantSales: []string{"sell-2"},
			wantOpen:  "0.5",
		},
		{
			name:      "before any sale",
			period:    Period{End: day("2016-03-01")},
			wantSales: nil,
			wantOpen:  "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := FIFO(records, "USD", tt.period)

			var sales []string
			for _, item := range append(report.ShortTerm, report.LongTerm...) {
				sales = append(sales, item.SaleID)
			}
			assert.Equal(t, tt.wantSales, sales)

			open := decimal.Zero
			for _, lot := range report.Open {
				open = open.Add(lot.Quantity)
			}
			assertDecimal(t, tt.wantOpen, open)
		})
	}
}

func TestYear(t *testing.T) {
	p := Year(2017, time.UTC)
	assert.True(t, p.contains(day("2017-01-01")))
	assert.True(t, p.contains(time.Date(2017, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.contains(day("2018-01-01")))
	assert.False(t, p.contains(day("2016-12-31")))
}
