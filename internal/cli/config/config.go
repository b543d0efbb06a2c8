package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/moneygrowth-go/internal/infra/confloader"
	"github.com/yndnr/moneygrowth-go/internal/telemetry/logger"
)

// Session store kinds.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config is the effective CLI configuration.
type Config struct {
	Backend BackendConfig `koanf:"backend" yaml:"backend"`
	Session SessionConfig `koanf:"session" yaml:"session"`
	Output  OutputConfig  `koanf:"output" yaml:"output"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
	REPL    REPLConfig    `koanf:"repl" yaml:"repl"`
}

// BackendConfig locates and paces the backend.
type BackendConfig struct {
	URL     string        `koanf:"url" yaml:"url"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
	RPS     float64       `koanf:"rps" yaml:"rps"`
	Burst   int           `koanf:"burst" yaml:"burst"`
	CAFile  string        `koanf:"cafile" yaml:"cafile,omitempty"`
}

// SessionConfig selects where the token is persisted.
type SessionConfig struct {
	Store      string `koanf:"store" yaml:"store"`
	Path       string `koanf:"path" yaml:"path,omitempty"`
	Passphrase string `koanf:"passphrase" yaml:"passphrase,omitempty"`
}

// OutputConfig sets the default output format.
type OutputConfig struct {
	Format string `koanf:"format" yaml:"format"`
}

// LogConfig configures the stderr logger.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// REPLConfig configures interactive mode.
type REPLConfig struct {
	History     string `koanf:"history" yaml:"history,omitempty"`
	HistorySize int    `koanf:"historysize" yaml:"historysize"`
}

// Dir returns ~/.moneygrowth.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".moneygrowth")
}

// DefaultPath returns ~/.moneygrowth/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Defaults returns the lowest-priority values keyed by dotted path.
func Defaults() map[string]any {
	return map[string]any{
		"backend.url":      "http://localhost:8001",
		"backend.timeout":  "30s",
		"backend.rps":      0,
		"backend.burst":    1,
		"session.store":    StoreFile,
		"output.format":    FormatTable,
		"log.level":        "warn",
		"log.format":       "text",
		"repl.historysize": 1000,
	}
}

// Default returns the configuration with no file, environment or flags.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not load: %v", err))
	}
	return cfg
}

// Load reads the file at path (if present), the environment and
// overrides, then validates the result. An empty path skips the file.
func Load(path string, overrides map[string]any) (*Config, error) {
	l := confloader.NewLoader(
		confloader.WithDefaults(Defaults()),
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	var cfg Config
	if err := l.Load(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Backend.URL = strings.TrimSpace(c.Backend.URL)
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Backend.Burst < 1 {
		c.Backend.Burst = 1
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("config: backend.url is empty")
	}
	if _, err := url.Parse(c.Backend.URL); err != nil {
		return fmt.Errorf("config: backend.url: %w", err)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("config: backend.timeout must not be negative")
	}
	if c.Backend.RPS < 0 {
		return fmt.Errorf("config: backend.rps must not be negative")
	}
	if !slices.Contains([]string{StoreFile, StoreBadger, StoreMemory}, c.Session.Store) {
		return fmt.Errorf("config: session.store %q is not one of file, badger, memory", c.Session.Store)
	}
	if !slices.Contains([]string{FormatTable, FormatJSON, FormatYAML}, c.Output.Format) {
		return fmt.Errorf("config: output.format %q is not one of table, json, yaml", c.Output.Format)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.ValidateFormat(c.Log.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SessionPath returns the configured session location, or the default for
// the store kind.
func (c *Config) SessionPath() string {
	if c.Session.Path != "" {
		return c.Session.Path
	}
	if c.Session.Store == StoreBadger {
		return filepath.Join(Dir(), "session.db")
	}
	return filepath.Join(Dir(), "session")
}

// HistoryPath returns the REPL history file.
func (c *Config) HistoryPath() string {
	if c.REPL.History != "" {
		return c.REPL.History
	}
	return filepath.Join(Dir(), "history")
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Session.Passphrase != "" {
		out.Session.Passphrase = "********"
	}
	return &out
}

// Save writes cfg as YAML with mode 0600, creating the directory.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, 0o600)
}
