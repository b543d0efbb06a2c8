package domain

import (
	"strings"
	"time"
)

// StockQuote is a single equity quote. Volume is absent when the upstream
// feed had no data.
type StockQuote struct {
	Symbol        string  `json:"symbol" yaml:"symbol"`
	Price         Amount  `json:"price" yaml:"price"`
	ChangePercent Amount  `json:"change_percent" yaml:"change_percent"`
	Volume        *Amount `json:"volume,omitempty" yaml:"volume,omitempty"`
}

// Available reports whether the backend had a price for the symbol.
func (q StockQuote) Available() bool {
	return !q.Price.IsZero()
}

// CryptoQuote is a single crypto asset quote.
type CryptoQuote struct {
	Symbol        string `json:"symbol" yaml:"symbol"`
	Name          string `json:"name" yaml:"name"`
	Price         Amount `json:"price" yaml:"price"`
	ChangePercent Amount `json:"change_percent" yaml:"change_percent"`
}

// MarketOverview is the public market snapshot.
type MarketOverview struct {
	Stocks      []StockQuote  `json:"stocks" yaml:"stocks"`
	Crypto      []CryptoQuote `json:"crypto" yaml:"crypto"`
	LastUpdated time.Time     `json:"last_updated" yaml:"last_updated"`
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrEmptySymbol
	}
	return s, nil
}
