package viewmodel

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// IconDir is where currency icons are served from.
const IconDir = "images/crypto/128"

// Placeholder is rendered for a monetary field without a currency.
const Placeholder = "-"

// cryptoCurrencies are registered with go-money so they format like fiat.
var cryptoCurrencies = []struct {
	code     string
	grapheme string
	fraction int
}{
	{"BTC", "₿", 8},
	{"BCH", "BCH", 8},
	{"ETH", "Ξ", 8},
	{"LTC", "Ł", 8},
	{"XRP", "XRP", 6},
	{"DOGE", "Ð", 8},
	{"ADA", "₳", 6},
	{"SOL", "◎", 8},
	{"USDT", "₮", 2},
	{"USDC", "USDC", 2},
}

func init() {
	for _, c := range cryptoCurrencies {
		money.AddCurrency(c.code, c.grapheme, "1 $", ".", ",", c.fraction)
	}
}

// CurrencyIcon returns the icon path for a currency code, or "" when the
// code is empty.
func CurrencyIcon(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s.png", IconDir, strings.ToLower(code))
}

// FormatCurrency renders amount in the given currency. Unknown codes fall
// back to the plain decimal followed by the code; an empty code renders the
// placeholder.
func FormatCurrency(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Placeholder
	}

	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(8) + " " + code
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.LessThan(minMinorUnits) || minor.GreaterThan(maxMinorUnits) {
		return formatWide(amount, cur)
	}
	return cur.Formatter().Format(minor.IntPart())
}

var (
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
)

// formatWide lays out amounts whose minor units do not fit in an int64 the
// same way go-money's formatter does.
func formatWide(amount decimal.Decimal, cur *money.Currency) string {
	digits := amount.Abs().StringFixed(int32(cur.Fraction))
	whole, frac, _ := strings.Cut(digits, ".")

	if cur.Thousand != "" {
		for i := len(whole) - 3; i > 0; i -= 3 {
			whole = whole[:i] + cur.Thousand + whole[i:]
		}
	}

	number := whole
	if frac != "" {
		number += cur.Decimal + frac
	}

	out := strings.Replace(cur.Template, "1", number, 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if amount.IsNegative() {
		out = "-" + out
	}
	return out
}
