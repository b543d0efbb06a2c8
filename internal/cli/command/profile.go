package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/api"
	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// ProfileCommand returns the profile subcommand group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:   "profile",
		Usage:  "View and edit your financial profile",
		Before: RequireSession,
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show your account and financial profile",
				Action: profileShow,
			},
			{
				Name:  "update",
				Usage: "Change profile fields; only the flags given are sent",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "income", Usage: "Monthly income"},
					&cli.StringFlag{Name: "expenses", Usage: "Monthly expenses"},
					&cli.StringFlag{Name: "goal", Usage: "Monthly savings goal"},
					&cli.StringFlag{Name: "risk", Usage: "Risk tolerance: low, moderate, high"},
					&cli.StringFlag{Name: "skills", Usage: "Comma separated skills"},
					&cli.StringFlag{Name: "location", Usage: "City or region"},
					&cli.StringFlag{Name: "time", Usage: "Time availability: part-time, full-time, weekends"},
					&cli.StringFlag{Name: "level", Usage: "Financial level: beginner, intermediate, advanced"},
				},
				Action: profileUpdate,
			},
		},
	}
}

type profileView struct {
	User    *domain.User             `json:"user"`
	Profile *domain.FinancialProfile `json:"profile"`
}

func profileShow(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}

	me := api.Go(c.Context, client.GetMe)
	prof := api.Go(c.Context, client.GetProfile)
	user, err := me.Await(c.Context)
	if err != nil {
		return rt.fail(c, err, "Could not load your account")
	}
	profile, err := prof.Await(c.Context)
	if err != nil {
		return rt.fail(c, err, "Could not load your profile")
	}

	view := profileView{User: user, Profile: profile}
	return rt.render(c, view, func(w io.Writer) error {
		return profileTable(user, profile).Render(w)
	})
}

func profileTable(user *domain.User, p *domain.FinancialProfile) *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	if user != nil {
		t.AddRow("name", user.FullName)
		t.AddRow("email", user.Email)
	}
	t.AddRow("monthly income", output.Money(p.MonthlyIncome.Decimal(), output.DefaultCurrency))
	t.AddRow("monthly expenses", output.Money(p.MonthlyExpenses.Decimal(), output.DefaultCurrency))
	t.AddRow("savings goal", output.Money(p.SavingsGoal.Decimal(), output.DefaultCurrency))
	t.AddRow("risk tolerance", orDash(p.RiskTolerance))
	t.AddRow("skills", orDash(strings.Join(p.Skills, ", ")))
	t.AddRow("location", orDash(p.Location))
	t.AddRow("time availability", orDash(p.TimeAvailability))
	t.AddRow("financial level", orDash(p.FinancialLevel))
	return t
}

// profileUpdateFrom builds the partial update from the flags that were set.
func profileUpdateFrom(c *cli.Context) (domain.ProfileUpdate, error) {
	var upd domain.ProfileUpdate
	amounts := []struct {
		flag string
		dst  **domain.Amount
	}{
		{"income", &upd.MonthlyIncome},
		{"expenses", &upd.MonthlyExpenses},
		{"goal", &upd.SavingsGoal},
	}
	for _, a := range amounts {
		if !c.IsSet(a.flag) {
			continue
		}
		v, err := domain.ParseAmount(c.String(a.flag))
		if err != nil {
			return upd, fmt.Errorf("--%s: %w", a.flag, err)
		}
		*a.dst = &v
	}

	strs := []struct {
		flag string
		dst  **string
	}{
		{"risk", &upd.RiskTolerance},
		{"location", &upd.Location},
		{"time", &upd.TimeAvailability},
		{"level", &upd.FinancialLevel},
	}
	for _, s := range strs {
		if c.IsSet(s.flag) {
			v := strings.TrimSpace(c.String(s.flag))
			*s.dst = &v
		}
	}
	if c.IsSet("skills") {
		upd.Skills = domain.ParseSkills(c.String("skills"))
	}
	return upd, nil
}

func profileUpdate(c *cli.Context) error {
	rt := GetRuntime(c)
	upd, err := profileUpdateFrom(c)
	if err != nil {
		return err
	}
	if upd.IsEmpty() {
		return errors.New("nothing to update; pass at least one field flag")
	}

	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	profile, err := client.UpdateProfile(c.Context, upd)
	if err != nil {
		return rt.fail(c, err, "Could not update your profile")
	}

	return rt.render(c, profile, func(w io.Writer) error {
		fmt.Fprintln(w, "Profile updated.")
		return profileTable(nil, profile).Render(w)
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
