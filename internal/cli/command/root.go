package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/api"
	"github.com/yndnr/moneygrowth-go/internal/cli/config"
	"github.com/yndnr/moneygrowth-go/internal/cli/connection"
	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/infra/buildinfo"
	"github.com/yndnr/moneygrowth-go/internal/session"
	"github.com/yndnr/moneygrowth-go/internal/telemetry/logger"
)

const runtimeKey = "runtime"

// ErrNotLoggedIn is returned by protected commands while anonymous.
var ErrNotLoggedIn = errors.New("not logged in; run `moneygrowth auth login`")

// ErrSessionExpired is returned after the backend rejected the token.
var ErrSessionExpired = errors.New("session expired; please log in again")

// Option configures App.
type Option func(*options)

type options struct {
	stdout  io.Writer
	stderr  io.Writer
	stdin   io.Reader
	backend session.Backend
}

// WithOutput sets the writers for results and notifications.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithInput sets the reader for --password-stdin and the REPL.
func WithInput(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

// WithSessionBackend replaces the configured session backend.
func WithSessionBackend(b session.Backend) Option {
	return func(o *options) { o.backend = b }
}

// App creates the CLI application.
func App(opts ...Option) *cli.App {
	o := &options{stdout: os.Stdout, stderr: os.Stderr, stdin: os.Stdin}
	for _, opt := range opts {
		opt(o)
	}
	return newApp(o)
}

func newApp(o *options) *cli.App {
	app := &cli.App{
		Name:      "moneygrowth",
		Usage:     "Personal finance advisor in your terminal",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Writer:    o.stdout,
		ErrWriter: o.stderr,
		Reader:    o.stdin,
		Metadata:  map[string]any{},
		Commands: []*cli.Command{
			AuthCommand(),
			ProfileCommand(),
			IncomeCommand(),
			BudgetCommand(),
			InvestCommand(),
			OpportunitiesCommand(),
			LearnCommand(),
			ChatCommand(),
			MarketCommand(),
			DashboardCommand(),
			ConfigCommand(),
			MetricsCommand(),
			VersionCommand(),
			REPLCommand(),
		},
		Before: func(c *cli.Context) error {
			return setup(c, o)
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return fmt.Errorf("unknown command %q; run `moneygrowth help`", c.Args().First())
			}
			if output.IsTerminal(os.Stdout) && isInteractive(c.App.Reader) {
				return runREPL(c)
			}
			return cli.ShowAppHelp(c)
		},
		// Errors are printed by main; the REPL must never exit the process.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   "Backend origin (e.g., http://localhost:8001)",
			EnvVars: []string{"MONEYGROWTH_BACKEND_URL"},
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Config file (default ~/.moneygrowth/config.yaml)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "session-store",
			Usage: "Where the token is kept: file, badger, memory",
		},
		&cli.StringFlag{
			Name:  "session-path",
			Usage: "Session file or database directory",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout (0 disables)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// flagOverrides maps explicitly set global flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	keys := map[string]string{
		"backend":       "backend.url",
		"output":        "output.format",
		"session-store": "session.store",
		"session-path":  "session.path",
		"log-level":     "log.level",
	}
	overrides := make(map[string]any)
	for flag, key := range keys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.IsSet("timeout") {
		overrides["backend.timeout"] = c.Duration("timeout").String()
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
	}
	return overrides
}

// Runtime is shared by every command run through one App, including each
// REPL line.
type Runtime struct {
	ConfigPath string
	Manager    *connection.Manager
	Log        logger.Logger

	format    output.Format
	overrides map[string]any
	spawn     func() *cli.App
	inREPL    bool
}

func setup(c *cli.Context, o *options) error {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		path := c.String("config")
		if path == "" {
			path = config.DefaultPath()
		}
		overrides := flagOverrides(c)
		cfg, err := config.Load(path, overrides)
		if err != nil {
			return err
		}
		log, err := logger.New(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: c.App.ErrWriter,
		})
		if err != nil {
			return err
		}
		logger.SetDefault(log)

		mopts := []connection.Option{connection.WithLogger(log)}
		if o.backend != nil {
			mopts = append(mopts, connection.WithSessionBackend(o.backend))
		}
		rt = &Runtime{
			ConfigPath: path,
			Manager:    connection.NewManager(cfg, mopts...),
			Log:        log,
			overrides:  overrides,
		}
		// REPL lines run on fresh Apps that share this Runtime.
		rt.spawn = func() *cli.App {
			app := newApp(o)
			app.Metadata[runtimeKey] = rt
			return app
		}
		c.App.Metadata[runtimeKey] = rt
	}

	format := rt.Manager.Config().Output.Format
	if c.IsSet("output") {
		format = c.String("output")
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	rt.format = f
	return nil
}

// GetRuntime returns the Runtime installed by the App's Before hook.
func GetRuntime(c *cli.Context) *Runtime {
	for _, ctx := range c.Lineage() {
		if ctx.App == nil {
			continue
		}
		if rt, ok := ctx.App.Metadata[runtimeKey].(*Runtime); ok {
			return rt
		}
	}
	return nil
}

// Close releases the session storage of an App that has run.
func Close(app *cli.App) error {
	if rt, ok := app.Metadata[runtimeKey].(*Runtime); ok {
		return rt.Manager.Close()
	}
	return nil
}

// Session returns the shared Store.
func (rt *Runtime) Session(ctx context.Context) (*session.Store, error) {
	return rt.Manager.Session(ctx)
}

// Client returns the shared gateway client.
func (rt *Runtime) Client(ctx context.Context) (*api.Client, error) {
	return rt.Manager.Client(ctx)
}

// RequireSession is the Before hook of every protected command. It fails
// without touching the network while anonymous.
func RequireSession(c *cli.Context) error {
	rt := GetRuntime(c)
	store, err := rt.Session(c.Context)
	if err != nil {
		return err
	}
	if !store.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// fail turns a gateway error into the user-facing error. A 401 from a
// protected operation clears the session first.
func (rt *Runtime) fail(c *cli.Context, err error, generic string) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && api.IsUnauthorized(err) {
		if op, ok := api.Lookup(apiErr.Op); ok && op.Protected {
			if store, serr := rt.Session(c.Context); serr == nil {
				if cerr := store.Clear(c.Context); cerr != nil {
					rt.Log.Warn("clear session failed", "error", cerr)
				}
			}
			return ErrSessionExpired
		}
	}
	rt.Log.Debug("command failed", "command", c.Command.FullName(), "error", err)
	return errors.New(api.Message(err, generic))
}

// empty prints the empty-state hint for a 404 on a latest or history
// read and reports whether it did. Outside table mode the hint goes to
// stderr and stdout stays empty.
func empty(c *cli.Context, err error, hint string) bool {
	if !api.IsNotFound(err) {
		return false
	}
	w := c.App.Writer
	if GetRuntime(c).format != output.FormatTable {
		w = c.App.ErrWriter
	}
	fmt.Fprintln(w, hint)
	return true
}

// render writes v in the selected format. Table mode uses table when it is
// non-nil, otherwise v is rendered by reflection.
func (rt *Runtime) render(c *cli.Context, v any, table func(w io.Writer) error) error {
	if rt.format == output.FormatTable && table != nil {
		return table(c.App.Writer)
	}
	return output.NewFormatter(rt.format).Format(c.App.Writer, v)
}

// busy shows a spinner on an interactive stderr while fn runs.
func busy[T any](c *cli.Context, msg string, fn func() (T, error)) (T, error) {
	sp := output.NewSpinner(c.App.ErrWriter, msg).Start()
	defer sp.Stop()
	return fn()
}

func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && output.IsTerminal(f)
}
