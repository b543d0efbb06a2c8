package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// AuthCommand returns the auth subcommand group.
func AuthCommand() *cli.Command {
	credentialFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password",
				EnvVars: []string{"MONEYGROWTH_PASSWORD"},
			},
			&cli.BoolFlag{
				Name:  "password-stdin",
				Usage: "Read the password from the first line of stdin",
			},
		}
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Log in, log out and inspect the session",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: append(credentialFlags(), &cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "Full name",
				}),
				Action: authRegister,
			},
			{
				Name:   "login",
				Usage:  "Log in and store the session token",
				Flags:  credentialFlags(),
				Action: authLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session token",
				Action: authLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in user",
				Before: RequireSession,
				Action: authWhoami,
			},
			{
				Name:   "status",
				Usage:  "Show the local session state (no network)",
				Action: authStatus,
			},
		},
	}
}

func readPassword(c *cli.Context) (string, error) {
	if !c.Bool("password-stdin") {
		return c.String("password"), nil
	}
	line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func authRegister(c *cli.Context) error {
	rt := GetRuntime(c)
	password, err := readPassword(c)
	if err != nil {
		return err
	}
	req := domain.RegisterRequest{
		Email:    c.String("email"),
		Password: password,
		FullName: c.String("name"),
	}

	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	resp, err := client.Register(c.Context, req)
	if err != nil {
		return rt.fail(c, err, "Registration failed")
	}
	if err := rt.storeToken(c, resp.Token); err != nil {
		return err
	}

	return rt.render(c, resp.User, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Welcome, %s! You are logged in as %s.\n", resp.User.FullName, resp.User.Email)
		return err
	})
}

func authLogin(c *cli.Context) error {
	rt := GetRuntime(c)
	password, err := readPassword(c)
	if err != nil {
		return err
	}
	req := domain.LoginRequest{Email: c.String("email"), Password: password}

	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	resp, err := client.Login(c.Context, req)
	if err != nil {
		return rt.fail(c, err, "Login failed")
	}
	if err := rt.storeToken(c, resp.Token); err != nil {
		return err
	}

	return rt.render(c, resp.User, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Logged in as %s.\n", resp.User.Email)
		return err
	})
}

func (rt *Runtime) storeToken(c *cli.Context, token string) error {
	store, err := rt.Session(c.Context)
	if err != nil {
		return err
	}
	if err := store.SetToken(c.Context, token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func authLogout(c *cli.Context) error {
	store, err := GetRuntime(c).Session(c.Context)
	if err != nil {
		return err
	}
	wasAuthenticated := store.IsAuthenticated()
	if err := store.Clear(c.Context); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if !wasAuthenticated {
		fmt.Fprintln(c.App.Writer, "Not logged in.")
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Logged out.")
	return nil
}

func authWhoami(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	user, err := client.GetMe(c.Context)
	if err != nil {
		return rt.fail(c, err, "Could not load your account")
	}
	return rt.render(c, user, nil)
}

type sessionStatus struct {
	State       string    `json:"state"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	Expired     bool      `json:"expired"`
	Store       string    `json:"store"`
	Backend     string    `json:"backend"`
}

func authStatus(c *cli.Context) error {
	rt := GetRuntime(c)
	store, err := rt.Session(c.Context)
	if err != nil {
		return err
	}
	cfg := rt.Manager.Config()

	st := sessionStatus{
		State:       store.State().String(),
		Fingerprint: store.Fingerprint(),
		Store:       cfg.Session.Store,
		Backend:     cfg.Backend.URL,
	}
	if claims, ok := store.Claims(); ok {
		st.UserID = claims.UserID
		st.ExpiresAt = claims.ExpiresAt
		st.Expired = claims.Expired(time.Now())
	}

	return rt.render(c, st, func(w io.Writer) error {
		t := output.NewTable("FIELD", "VALUE")
		t.AddRow("state", st.State)
		if st.Fingerprint != "" {
			t.AddRow("token", st.Fingerprint)
		}
		if st.UserID != "" {
			t.AddRow("user", st.UserID)
		}
		if !st.ExpiresAt.IsZero() {
			exp := st.ExpiresAt.Local().Format("2006-01-02 15:04")
			if st.Expired {
				exp += " (expired)"
			}
			t.AddRow("expires", exp)
		}
		t.AddRow("store", st.Store)
		t.AddRow("backend", st.Backend)
		return t.Render(w)
	})
}
