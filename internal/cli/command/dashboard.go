package command

import (
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/cli/output"
)

// DashboardCommand returns the dashboard command.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Monthly money and learning summary",
		Before: RequireSession,
		Action: dashboard,
	}
}

func dashboard(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	s, err := client.GetDashboardStats(c.Context)
	if err != nil {
		return rt.fail(c, err, "Could not load your dashboard")
	}

	return rt.render(c, s, func(w io.Writer) error {
		t := output.NewTable("METRIC", "VALUE")
		t.AddRow("monthly income", output.Money(s.MonthlyIncome.Decimal(), output.DefaultCurrency))
		t.AddRow("monthly expenses", output.Money(s.MonthlyExpenses.Decimal(), output.DefaultCurrency))
		t.AddRow("monthly savings", output.Money(s.MonthlySavings.Decimal(), output.DefaultCurrency))
		t.AddRow("savings rate", output.Percent(s.SavingsRate.Decimal()))
		if !s.SavingsGoal.IsZero() {
			t.AddRow("savings goal", output.Money(s.SavingsGoal.Decimal(), output.DefaultCurrency))
			t.AddRow("goal progress", output.ProgressBar(s.GoalProgress.Float64(), 100, 20))
		}
		t.AddRow("points", output.Points(s.TotalPoints))
		t.AddRow("lessons completed", strconv.Itoa(s.CompletedLessons))
		t.AddRow("streak", strconv.Itoa(s.CurrentStreak))
		return t.Render(w)
	})
}
