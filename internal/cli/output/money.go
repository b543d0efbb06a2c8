package output

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when none is configured.
const DefaultCurrency = "USD"

// Money formats amount in currency, e.g. "$1,234.50". Unknown currency
// codes fall back to DefaultCurrency.
func Money(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	cur := money.GetCurrency(code)
	if cur == nil {
		code = DefaultCurrency
		cur = money.GetCurrency(code)
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// Percent formats a percentage with one decimal, e.g. "33.3%".
func Percent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// SignedPercent is Percent with an explicit plus sign for gains.
func SignedPercent(p decimal.Decimal) string {
	if p.IsPositive() {
		return "+" + Percent(p)
	}
	return Percent(p)
}

// Points formats a points total.
func Points(n int) string {
	if n == 1 {
		return "1 pt"
	}
	return fmt.Sprintf("%d pts", n)
}
