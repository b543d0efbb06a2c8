package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/api"
	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

const (
	noIncome        = "No income ideas yet. Run `moneygrowth income generate`."
	noBudget        = "No budget analysis yet. Run `moneygrowth budget analyze`."
	noAdvice        = "No investment advice yet. Run `moneygrowth invest advise`."
	noOpportunities = "No opportunity scan yet. Run `moneygrowth opportunities scan`."
)

// IncomeCommand returns the income subcommand group.
func IncomeCommand() *cli.Command {
	return &cli.Command{
		Name:   "income",
		Usage:  "Side income ideas matched to your profile",
		Before: RequireSession,
		Subcommands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate new income ideas",
				Action: incomeGenerate,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your recent income ideas",
				Action:  incomeList,
			},
		},
	}
}

func incomeGenerate(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	ideas, err := busy(c, "Generating income ideas", func() ([]domain.IncomeOpportunity, error) {
		return client.GenerateIncomeOpportunities(c.Context)
	})
	if err != nil {
		return rt.fail(c, err, "Could not generate income ideas")
	}
	return rt.render(c, ideas, incomeTable(ideas))
}

func incomeList(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	ideas, err := client.GetIncomeOpportunities(c.Context)
	if empty(c, err, noIncome) {
		return nil
	}
	if err != nil {
		return rt.fail(c, err, "Could not load income ideas")
	}
	if len(ideas) == 0 && rt.format == output.FormatTable {
		fmt.Fprintln(c.App.Writer, noIncome)
		return nil
	}
	return rt.render(c, ideas, incomeTable(ideas))
}

func incomeTable(ideas []domain.IncomeOpportunity) func(io.Writer) error {
	return func(w io.Writer) error {
		t := output.NewTable("TITLE", "CATEGORY", "ESTIMATE", "EFFORT", "TIME", "SKILLS")
		for _, o := range ideas {
			t.AddRow(o.Title, o.Category, o.EstimatedIncome, o.EffortLevel, o.TimeCommitment,
				orDash(strings.Join(o.SkillsRequired, ", ")))
		}
		return t.Render(w)
	}
}

// BudgetCommand returns the budget subcommand group.
func BudgetCommand() *cli.Command {
	return &cli.Command{
		Name:   "budget",
		Usage:  "Find spending leaks",
		Before: RequireSession,
		Subcommands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Analyze your budget",
				Action: budgetAnalyze,
			},
			{
				Name:   "latest",
				Usage:  "Show the most recent analysis",
				Action: budgetLatest,
			},
		},
	}
}

func budgetAnalyze(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	a, err := busy(c, "Analyzing budget", func() (*domain.BudgetAnalysis, error) {
		return client.AnalyzeBudget(c.Context)
	})
	if err != nil {
		return rt.fail(c, err, "Could not analyze your budget")
	}
	return rt.render(c, a, budgetView(a))
}

func budgetLatest(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	a, err := client.GetLatestBudgetAnalysis(c.Context)
	if empty(c, err, noBudget) {
		return nil
	}
	if err != nil {
		return rt.fail(c, err, "Could not load your budget analysis")
	}
	return rt.render(c, a, budgetView(a))
}

func budgetView(a *domain.BudgetAnalysis) func(io.Writer) error {
	return func(w io.Writer) error {
		fmt.Fprintf(w, "Potential savings: %s per month\n\n",
			output.Money(a.PotentialSavings.Decimal(), output.DefaultCurrency))

		t := output.NewTable("CATEGORY", "AMOUNT", "WHY")
		for _, l := range a.SpendingLeaks {
			t.AddRow(l.Category, output.Money(l.Amount.Decimal(), output.DefaultCurrency), l.Description)
		}
		if err := t.Render(w); err != nil {
			return err
		}
		return bullets(w, "Recommendations", a.Recommendations)
	}
}

// InvestCommand returns the invest subcommand group.
func InvestCommand() *cli.Command {
	return &cli.Command{
		Name:   "invest",
		Usage:  "Allocation advice for your risk profile",
		Before: RequireSession,
		Subcommands: []*cli.Command{
			{
				Name:   "advise",
				Usage:  "Get new investment advice",
				Action: investAdvise,
			},
			{
				Name:   "latest",
				Usage:  "Show the most recent advice",
				Action: investLatest,
			},
		},
	}
}

func investAdvise(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	adv, err := busy(c, "Preparing investment advice", func() (*domain.InvestmentAdvice, error) {
		return client.GetInvestmentAdvice(c.Context)
	})
	if err != nil {
		return rt.fail(c, err, "Could not get investment advice")
	}
	return rt.render(c, adv, adviceView(adv))
}

func investLatest(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	adv, err := client.GetLatestInvestmentAdvice(c.Context)
	if empty(c, err, noAdvice) {
		return nil
	}
	if err != nil {
		return rt.fail(c, err, "Could not load your investment advice")
	}
	return rt.render(c, adv, adviceView(adv))
}

func adviceView(a *domain.InvestmentAdvice) func(io.Writer) error {
	return func(w io.Writer) error {
		fmt.Fprintf(w, "Level: %s\nRisk: %s\n\n", orDash(a.Level), orDash(a.RiskAssessment))

		t := output.NewTable("TYPE", "SHARE", "", "RISK", "NOTES")
		for _, r := range a.Recommendations {
			t.AddRow(r.Type, output.Percent(r.Allocation.Decimal()),
				output.ProgressBar(r.Allocation.Float64(), 100, 10), r.Risk, r.Description)
		}
		if err := t.Render(w); err != nil {
			return err
		}

		if total := a.TotalAllocation(); len(a.Recommendations) > 0 && !total.Equal(domain.A(100)) {
			fmt.Fprintf(w, "(allocations sum to %s%%)\n", total.StringFixed(1))
		}

		s := a.PortfolioSuggestion
		if s.Strategy != "" {
			fmt.Fprintf(w, "\nStrategy: %s\nRebalance: %s\nExpected return: %s\n",
				s.Strategy, orDash(s.RebalanceFrequency), orDash(s.ExpectedReturn))
		}
		return nil
	}
}

// OpportunitiesCommand returns the opportunities subcommand group.
func OpportunitiesCommand() *cli.Command {
	return &cli.Command{
		Name:    "opportunities",
		Aliases: []string{"opps"},
		Usage:   "Market alerts and trends for your profile",
		Before:  RequireSession,
		Subcommands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "Scan for new opportunities",
				Action: opportunitiesScan,
			},
			{
				Name:   "latest",
				Usage:  "Show the most recent scan with a market snapshot",
				Action: opportunitiesLatest,
			},
		},
	}
}

type scanView struct {
	Scan   *domain.OpportunityScan `json:"scan"`
	Market *domain.MarketOverview  `json:"market,omitempty"`
}

func opportunitiesScan(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	scan, err := busy(c, "Scanning opportunities", func() (*domain.OpportunityScan, error) {
		return client.ScanOpportunities(c.Context)
	})
	if err != nil {
		return rt.fail(c, err, "Could not scan for opportunities")
	}
	return rt.render(c, scan, scanTable(scan, nil))
}

func opportunitiesLatest(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}

	market := api.Go(c.Context, client.GetMarketOverview)
	scan, err := client.GetLatestOpportunityScan(c.Context)
	if empty(c, err, noOpportunities) {
		return nil
	}
	if err != nil {
		return rt.fail(c, err, "Could not load your opportunity scan")
	}

	overview, merr := market.Await(c.Context)
	if merr != nil {
		rt.Log.Warn("market overview unavailable", "error", merr)
	}
	view := scanView{Scan: scan, Market: overview}
	return rt.render(c, view, scanTable(scan, overview))
}

func scanTable(s *domain.OpportunityScan, market *domain.MarketOverview) func(io.Writer) error {
	return func(w io.Writer) error {
		if err := bullets(w, "Alerts", s.PersonalizedAlerts); err != nil {
			return err
		}
		if err := bullets(w, "Market trends", s.MarketTrends); err != nil {
			return err
		}
		fmt.Fprintln(w)
		t := output.NewTable("TYPE", "TITLE", "DEADLINE", "RISK", "DETAILS")
		for _, o := range s.Opportunities {
			t.AddRow(o.Type, o.Title, orDash(o.Deadline), orDash(o.RiskLevel), o.Description)
		}
		if err := t.Render(w); err != nil {
			return err
		}
		if market != nil {
			fmt.Fprintln(w)
			return marketTable(market).Render(w)
		}
		return nil
	}
}

// bullets prints a titled list, or nothing when items is empty.
func bullets(w io.Writer, title string, items []string) error {
	if len(items) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s:\n", title); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "  • %s\n", it); err != nil {
			return err
		}
	}
	return nil
}
