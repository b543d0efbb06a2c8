package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://localhost:8001" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Backend.Timeout = %v, want 30s", cfg.Backend.Timeout)
	}
	if cfg.Backend.Burst != 1 || cfg.Backend.RPS != 0 {
		t.Errorf("rate limit = %v/%d, want disabled", cfg.Backend.RPS, cfg.Backend.Burst)
	}
	if cfg.Session.Store != StoreFile {
		t.Errorf("Session.Store = %q", cfg.Session.Store)
	}
	if cfg.Output.Format != FormatTable {
		t.Errorf("Output.Format = %q", cfg.Output.Format)
	}
	if cfg.REPL.HistorySize != 1000 {
		t.Errorf("REPL.HistorySize = %d", cfg.REPL.HistorySize)
	}
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	if !strings.HasSuffix(path, filepath.Join(".moneygrowth", "config.yaml")) {
		t.Errorf("DefaultPath() = %q", path)
	}
}

func TestLoad_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend:
  url: http://file:8001
  timeout: 10s
session:
  store: badger
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("MONEYGROWTH_BACKEND_URL", "http://env:8001")

	cfg, err := Load(path, map[string]any{"output.format": "yaml"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://env:8001" {
		t.Errorf("URL = %q, env should win over file", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s from file", cfg.Backend.Timeout)
	}
	if cfg.Output.Format != FormatYAML {
		t.Errorf("Format = %q, override should win", cfg.Output.Format)
	}
	if cfg.Session.Store != StoreBadger {
		t.Errorf("Store = %q", cfg.Session.Store)
	}
	if !strings.HasSuffix(cfg.SessionPath(), "session.db") {
		t.Errorf("SessionPath() = %q, want badger default", cfg.SessionPath())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		want      string
	}{
		{"bad store", map[string]any{"session.store": "redis"}, "session.store"},
		{"bad format", map[string]any{"output.format": "xml"}, "output.format"},
		{"empty url", map[string]any{"backend.url": " "}, "backend.url"},
		{"negative rps", map[string]any{"backend.rps": -1}, "backend.rps"},
		{"bad log level", map[string]any{"log.level": "loud"}, "log level"},
		{"bad log format", map[string]any{"log.format": "xml"}, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", tt.overrides)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Backend.URL = "https://api.example.com"
	cfg.Backend.Timeout = 5 * time.Second
	cfg.Session.Passphrase = "correct horse"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Backend.URL != cfg.Backend.URL || got.Backend.Timeout != 5*time.Second {
		t.Errorf("reloaded backend = %+v", got.Backend)
	}
	if got.Session.Passphrase != "correct horse" {
		t.Errorf("passphrase not persisted")
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Session.Passphrase = "secret"

	r := cfg.Redacted()
	if r.Session.Passphrase == "secret" {
		t.Error("Redacted should mask the passphrase")
	}
	if cfg.Session.Passphrase != "secret" {
		t.Error("Redacted must not modify the original")
	}
}
