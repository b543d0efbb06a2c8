package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/moneygrowth-go/internal/apitest"
	"github.com/yndnr/moneygrowth-go/internal/session"
)

// harness runs the CLI against a fake backend with its own config and
// session file, as separate process invocations would.
type harness struct {
	t   *testing.T
	srv *apitest.Server
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, srv: apitest.New(t), dir: t.TempDir()}
}

func (h *harness) configPath() string  { return filepath.Join(h.dir, "config.yaml") }
func (h *harness) sessionPath() string { return filepath.Join(h.dir, "session") }

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes one command line. Global flags point at the harness.
func (h *harness) run(args ...string) result {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) runWithInput(stdin string, args ...string) result {
	h.t.Helper()
	var out, errOut bytes.Buffer
	app := App(WithOutput(&out, &errOut), WithInput(strings.NewReader(stdin)))
	full := append([]string{
		"moneygrowth",
		"--config", h.configPath(),
		"--backend", h.srv.URL,
		"--session-path", h.sessionPath(),
	}, args...)
	err := app.RunContext(context.Background(), full)
	if cerr := Close(app); cerr != nil {
		h.t.Errorf("Close: %v", cerr)
	}
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// login seeds an account and logs in through the CLI.
func (h *harness) login() string {
	h.t.Helper()
	_, user := h.srv.SeedUser("ann@example.com", "secret-pw", "Ann Lee")
	res := h.run("auth", "login", "--email", "ann@example.com", "--password", "secret-pw")
	if res.err != nil {
		h.t.Fatalf("login: %v (stderr %q)", res.err, res.stderr)
	}
	return user.ID
}

// storedToken returns the token persisted in the session file.
func (h *harness) storedToken() string {
	h.t.Helper()
	token, err := session.NewFileBackend(h.sessionPath()).Load(context.Background())
	if err != nil {
		h.t.Fatalf("load session: %v", err)
	}
	return token
}

func (h *harness) storeToken(token string) {
	h.t.Helper()
	if err := session.NewFileBackend(h.sessionPath()).Save(context.Background(), token); err != nil {
		h.t.Fatalf("save session: %v", err)
	}
}

func (h *harness) requestCount() int {
	return len(h.srv.Requests())
}

// writeConfig writes a config file whose REPL history stays in the
// harness directory.
func (h *harness) writeConfig(extra string) {
	h.t.Helper()
	content := "repl:\n  history: " + filepath.Join(h.dir, "history") + "\n" + extra
	if err := os.WriteFile(h.configPath(), []byte(content), 0600); err != nil {
		h.t.Fatalf("write config: %v", err)
	}
}
