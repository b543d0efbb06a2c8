package connection

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/moneygrowth-go/internal/apitest"
	"github.com/yndnr/moneygrowth-go/internal/cli/config"
	"github.com/yndnr/moneygrowth-go/internal/session"
)

func testConfig(t *testing.T, backendURL string) *config.Config {
	t.Helper()
	cfg, err := config.Load("", map[string]any{
		"backend.url":  backendURL,
		"session.path": filepath.Join(t.TempDir(), "session"),
	})
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestManager_LazySession(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1")
	m := NewManager(cfg)
	defer m.Close()

	if _, err := os.Stat(cfg.SessionPath()); !os.IsNotExist(err) {
		t.Fatal("session file should not exist before first use")
	}

	s1, err := m.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	s2, _ := m.Session(context.Background())
	if s1 != s2 {
		t.Error("Session should return the same Store")
	}
	if s1.IsAuthenticated() {
		t.Error("fresh store should be anonymous")
	}
}

func TestManager_ClientUsesSession(t *testing.T) {
	srv := apitest.New(t)
	token, _ := srv.SeedUser("a@b.c", "secret-pw", "Ann")

	m := NewManager(testConfig(t, srv.URL), WithSessionBackend(session.NewMemoryBackend(token)))
	defer m.Close()

	client, err := m.Client(context.Background())
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	user, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if user.Email != "a@b.c" {
		t.Errorf("Email = %q", user.Email)
	}

	again, _ := m.Client(context.Background())
	if again != client {
		t.Error("Client should be cached")
	}
}

func TestManager_ReconfigureRebuildsClient(t *testing.T) {
	first := apitest.New(t)
	second := apitest.New(t)

	m := NewManager(testConfig(t, first.URL), WithSessionBackend(session.NewMemoryBackend("")))
	defer m.Close()

	c1, err := m.Client(context.Background())
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	store, _ := m.Session(context.Background())

	cfg := testConfig(t, second.URL)
	cfg.Backend.Timeout = 2 * time.Second
	if err := m.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	c2, err := m.Client(context.Background())
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if c1 == c2 {
		t.Fatal("client should be rebuilt after Reconfigure")
	}
	if c2.BaseURL() != second.URL {
		t.Errorf("BaseURL = %q, want %q", c2.BaseURL(), second.URL)
	}
	if s, _ := m.Session(context.Background()); s != store {
		t.Error("injected session should survive Reconfigure")
	}
}

func TestManager_ReconfigureReopensMovedSession(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1")
	m := NewManager(cfg)
	defer m.Close()

	s1, err := m.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if err := s1.SetToken(context.Background(), "tok-1"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	moved := *cfg
	moved.Session.Path = filepath.Join(t.TempDir(), "other")
	if err := m.Reconfigure(&moved); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	s2, err := m.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if s2 == s1 || s2.IsAuthenticated() {
		t.Error("moved session path should open a fresh anonymous store")
	}
}

func TestManager_BadgerStore(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1")
	cfg.Session.Store = config.StoreBadger
	cfg.Session.Path = filepath.Join(t.TempDir(), "session.db")

	m := NewManager(cfg)
	s, err := m.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if err := s.SetToken(context.Background(), "persisted"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m2 := NewManager(cfg)
	defer m2.Close()
	s2, err := m2.Session(context.Background())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if s2.Token() != "persisted" {
		t.Errorf("Token() = %q, want persisted", s2.Token())
	}
}

func TestManager_SealedSessionWithoutPassphrase(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1")
	cfg.Session.Passphrase = "long enough passphrase"

	m := NewManager(cfg)
	s, err := m.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if err := s.SetToken(context.Background(), "secret-token"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	m.Close()

	data, _ := os.ReadFile(cfg.SessionPath())
	if !session.IsSealed(string(data)) {
		t.Fatalf("file content should be sealed, got %q", data)
	}

	plain := *cfg
	plain.Session.Passphrase = ""
	m2 := NewManager(&plain)
	defer m2.Close()
	s2, err := m2.Session(context.Background())
	if err != nil {
		t.Fatalf("Session should degrade to anonymous, got %v", err)
	}
	if s2.IsAuthenticated() {
		t.Error("store should be anonymous when the token cannot be unsealed")
	}
}

func TestManager_MetricsObserved(t *testing.T) {
	srv := apitest.New(t)
	m := NewManager(testConfig(t, srv.URL), WithSessionBackend(session.NewMemoryBackend("")))
	defer m.Close()

	client, err := m.Client(context.Background())
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	client.GetMarketOverview(context.Background())

	families, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "moneygrowth_client_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("client request counter not gathered")
	}
}
