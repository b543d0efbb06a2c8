package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// MarketCommand returns the market subcommand group. It needs no login.
func MarketCommand() *cli.Command {
	return &cli.Command{
		Name:  "market",
		Usage: "Public market snapshot",
		Subcommands: []*cli.Command{
			{
				Name:   "overview",
				Usage:  "Show index, stock and crypto quotes",
				Action: marketOverview,
			},
			{
				Name:      "stock",
				Usage:     "Quote a single stock",
				ArgsUsage: "SYMBOL",
				Action:    marketStock,
			},
		},
	}
}

func marketOverview(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	m, err := client.GetMarketOverview(c.Context)
	if err != nil {
		return rt.fail(c, err, "Could not load market data")
	}
	return rt.render(c, m, func(w io.Writer) error {
		if err := marketTable(m).Render(w); err != nil {
			return err
		}
		if !m.LastUpdated.IsZero() {
			fmt.Fprintf(w, "\nUpdated %s\n", m.LastUpdated.Local().Format("2006-01-02 15:04"))
		}
		return nil
	})
}

func marketTable(m *domain.MarketOverview) *output.Table {
	t := output.NewTable("KIND", "SYMBOL", "NAME", "PRICE", "CHANGE")
	for _, q := range m.Stocks {
		t.AddRow("stock", q.Symbol, "", output.Money(q.Price.Decimal(), output.DefaultCurrency),
			output.SignedPercent(q.ChangePercent.Decimal()))
	}
	for _, q := range m.Crypto {
		t.AddRow("crypto", q.Symbol, q.Name, output.Money(q.Price.Decimal(), output.DefaultCurrency),
			output.SignedPercent(q.ChangePercent.Decimal()))
	}
	return t
}

func marketStock(c *cli.Context) error {
	rt := GetRuntime(c)
	symbol, err := domain.NormalizeSymbol(c.Args().First())
	if err != nil {
		return err
	}
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	q, err := client.GetStockData(c.Context, symbol)
	if err != nil {
		return rt.fail(c, err, "Could not load the quote")
	}
	return rt.render(c, q, func(w io.Writer) error {
		if !q.Available() {
			_, err := fmt.Fprintf(w, "No market data for %s.\n", symbol)
			return err
		}
		t := output.NewTable("FIELD", "VALUE")
		t.AddRow("symbol", q.Symbol)
		t.AddRow("price", output.Money(q.Price.Decimal(), output.DefaultCurrency))
		t.AddRow("change", output.SignedPercent(q.ChangePercent.Decimal()))
		if q.Volume != nil {
			t.AddRow("volume", q.Volume.StringFixed(0))
		}
		return t.Render(w)
	})
}
