package command

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/cli/config"
	"github.com/yndnr/moneygrowth-go/internal/cli/repl"
	"github.com/yndnr/moneygrowth-go/internal/infra/buildinfo"
	"github.com/yndnr/moneygrowth-go/internal/infra/confloader"
	"github.com/yndnr/moneygrowth-go/internal/session"
)

const (
	promptAnonymous     = "moneygrowth> "
	promptAuthenticated = "moneygrowth*> "
)

// REPLCommand returns the repl command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Interactive mode",
		Action: runREPL,
	}
}

// sessionWatch mirrors the Store's state for the prompt. After a reload
// the Manager may hand out a new Store, which is subscribed once.
type sessionWatch struct {
	authed atomic.Bool
	last   *session.Store
}

func (w *sessionWatch) follow(ctx context.Context, rt *Runtime) {
	store, err := rt.Session(ctx)
	if err != nil {
		rt.Log.Warn("session unavailable", "error", err)
		w.authed.Store(false)
		return
	}
	w.authed.Store(store.IsAuthenticated())
	if store == w.last {
		return
	}
	w.last = store
	store.Subscribe(func(s session.State) {
		w.authed.Store(s == session.Authenticated)
	})
}

func (w *sessionWatch) prompt() string {
	if w.authed.Load() {
		return promptAuthenticated
	}
	return promptAnonymous
}

func runREPL(c *cli.Context) error {
	rt := GetRuntime(c)
	if rt.inREPL {
		return errors.New("already in interactive mode")
	}
	rt.inREPL = true
	defer func() { rt.inREPL = false }()

	ctx := c.Context
	watch := &sessionWatch{}
	watch.follow(ctx, rt)

	stop := rt.watchConfig(ctx, watch)
	defer stop()

	cfg := rt.Manager.Config()
	app := rt.spawn()
	exec := func(ctx context.Context, args []string) error {
		return rt.spawn().RunContext(ctx, append([]string{app.Name}, args...))
	}

	r := repl.New(exec,
		repl.WithIO(c.App.Reader, c.App.Writer, c.App.ErrWriter),
		repl.WithPrompt(watch.prompt),
		repl.WithCompleter(repl.NewCompleter(commandPaths(app.Commands, ""))),
		repl.WithHistory(repl.NewHistory(cfg.HistoryPath(), cfg.REPL.HistorySize)),
		repl.WithLogger(rt.Log),
	)
	fmt.Fprintf(c.App.Writer, "moneygrowth %s. Type help for commands, exit to leave.\n", buildinfo.Version)
	return r.Run(ctx)
}

// watchConfig reloads the config file when it changes and rebuilds the
// client. It returns a function that stops watching.
func (rt *Runtime) watchConfig(ctx context.Context, watch *sessionWatch) func() {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.Log.Slog()))
	if err != nil {
		rt.Log.Warn("config watcher unavailable", "error", err)
		return func() {}
	}
	if err := w.Watch(rt.ConfigPath); err != nil {
		rt.Log.Debug("config file not watched", "path", rt.ConfigPath, "error", err)
		w.Stop()
		return func() {}
	}

	w.OnChange(func(path string) {
		cfg, err := config.Load(path, rt.overrides)
		if err != nil {
			rt.Log.Warn("config reload failed; keeping previous settings", "error", err)
			return
		}
		if err := rt.Manager.Reconfigure(cfg); err != nil {
			rt.Log.Warn("config reload failed", "error", err)
			return
		}
		watch.follow(ctx, rt)
		rt.Log.Info("configuration reloaded", "path", path)
	})
	w.StartAsync()
	return func() { w.Stop() }
}

// commandPaths lists "group sub" paths for completion, skipping help.
func commandPaths(cmds []*cli.Command, parent string) []string {
	var paths []string
	for _, cmd := range cmds {
		if cmd.Hidden || cmd.Name == "help" || cmd.Name == "h" {
			continue
		}
		path := cmd.Name
		if parent != "" {
			path = parent + " " + cmd.Name
		}
		paths = append(paths, path)
		paths = append(paths, commandPaths(cmd.Subcommands, path)...)
	}
	return paths
}
