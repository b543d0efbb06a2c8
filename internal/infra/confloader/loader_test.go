package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Backend struct {
		URL     string `koanf:"url"`
		Timeout string `koanf:"timeout"`
		RPS     int    `koanf:"rps"`
	} `koanf:"backend"`
	Session struct {
		Store string `koanf:"store"`
	} `koanf:"session"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/path/to/config.yaml"))
	if l.envPrefix != "TEST_" || l.filePath != "/path/to/config.yaml" {
		t.Errorf("options not applied: %+v", l)
	}
}

func TestLoader_Priority(t *testing.T) {
	path := writeFile(t, `
backend:
  url: http://from-file:8001
  timeout: 10s
  rps: 3
session:
  store: badger
`)
	t.Setenv("MONEYGROWTH_BACKEND_URL", "http://from-env:8001")
	t.Setenv("MONEYGROWTH_BACKEND_TIMEOUT", "20s")

	l := NewLoader(
		WithConfigFile(path),
		WithDefaults(map[string]any{
			"backend.url":     "http://localhost:8001",
			"backend.timeout": "30s",
			"backend.rps":     0,
			"session.store":   "file",
		}),
		WithOverrides(map[string]any{"backend.timeout": "5s"}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name, got, want string
	}{
		{"env beats file", cfg.Backend.URL, "http://from-env:8001"},
		{"override beats env", cfg.Backend.Timeout, "5s"},
		{"file beats default", cfg.Session.Store, "badger"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if cfg.Backend.RPS != 3 {
		t.Errorf("RPS = %d, want 3", cfg.Backend.RPS)
	}
	if !l.FileFound() || !l.IsLoaded() {
		t.Error("FileFound and IsLoaded should be true")
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	l := NewLoader(
		WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")),
		WithDefaults(map[string]any{"backend.url": "http://localhost:8001"}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8001" {
		t.Errorf("URL = %q", cfg.Backend.URL)
	}
	if l.FileFound() {
		t.Error("FileFound should be false")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") = %v, want nil", err)
	}
}

func TestLoader_BadYAML(t *testing.T) {
	path := writeFile(t, "backend: [unclosed")
	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_REPL_HISTORY", "/tmp/h")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := l.GetString("repl.history"); got != "/tmp/h" {
		t.Errorf("repl.history = %q", got)
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"backend.burst": 4, "log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if l.GetInt("backend.burst") != 4 {
		t.Errorf("backend.burst = %d", l.GetInt("backend.burst"))
	}
	if len(l.Keys()) != 2 || len(l.All()) != 2 {
		t.Errorf("Keys() = %v", l.Keys())
	}
}
