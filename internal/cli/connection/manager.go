package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/moneygrowth-go/internal/api"
	"github.com/yndnr/moneygrowth-go/internal/cli/config"
	"github.com/yndnr/moneygrowth-go/internal/infra/tlsroots"
	"github.com/yndnr/moneygrowth-go/internal/session"
	"github.com/yndnr/moneygrowth-go/internal/storage"
	"github.com/yndnr/moneygrowth-go/internal/telemetry/logger"
	"github.com/yndnr/moneygrowth-go/internal/telemetry/metric"
)

// Manager holds the shared session and client.
type Manager struct {
	mu       sync.Mutex
	cfg      *config.Config
	log      logger.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	backend session.Backend
	store   *session.Store
	client  *api.Client
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger handed to the store and client.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithSessionBackend replaces the configured session backend.
func WithSessionBackend(b session.Backend) Option {
	return func(m *Manager) { m.backend = b }
}

// WithRegistry sets the Prometheus registry for client metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) { m.registry = reg }
}

// NewManager creates a manager for cfg. Nothing is opened yet.
func NewManager(cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Default()
	}
	if m.registry == nil {
		m.registry = metric.NewRegistry()
	}
	return m
}

// Config returns the current configuration.
func (m *Manager) Config() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Gatherer exposes the metrics collected in this process.
func (m *Manager) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Session opens the Store on first use. A persisted token that cannot be
// unsealed leaves the Store anonymous; the user is asked to log in again.
func (m *Manager) Session(ctx context.Context) (*session.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionLocked(ctx)
}

func (m *Manager) sessionLocked(ctx context.Context) (*session.Store, error) {
	if m.store != nil {
		return m.store, nil
	}

	backend := m.backend
	if backend == nil {
		b, err := m.openBackend()
		if err != nil {
			return nil, err
		}
		backend = b
	}

	opts := []session.Option{session.WithLogger(m.log)}
	if pass := m.cfg.Session.Passphrase; pass != "" {
		sealer, err := session.NewSealer(pass)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("session passphrase: %w", err)
		}
		opts = append(opts, session.WithSealer(sealer))
	}

	store, err := session.Open(ctx, backend, opts...)
	if err != nil && !errors.Is(err, session.ErrSealedToken) {
		backend.Close()
		return nil, err
	}
	if err != nil {
		m.log.Warn("stored session could not be opened; log in again", "error", err)
	}
	m.store = store
	return store, nil
}

func (m *Manager) openBackend() (session.Backend, error) {
	path := m.cfg.SessionPath()
	switch m.cfg.Session.Store {
	case config.StoreMemory:
		return session.NewMemoryBackend(""), nil
	case config.StoreBadger:
		b, err := session.OpenBadgerBackend(path, m.log.Slog())
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		if kv, ok := b.KV().(*storage.BadgerKV); ok {
			kv.RegisterMetrics(m.registry)
		}
		return b, nil
	default:
		return session.NewFileBackend(path), nil
	}
}

// Client returns the API client, building it (and the Store) on first use.
func (m *Manager) Client(ctx context.Context) (*api.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}
	store, err := m.sessionLocked(ctx)
	if err != nil {
		return nil, err
	}
	client, err := m.buildClient(store)
	if err != nil {
		return nil, err
	}
	m.client = client
	return client, nil
}

func (m *Manager) buildClient(tokens api.TokenSource) (*api.Client, error) {
	if m.metrics == nil {
		metrics, err := metric.New(m.registry)
		if err != nil {
			return nil, err
		}
		m.metrics = metrics
	}

	b := m.cfg.Backend
	opts := []api.Option{
		api.WithTimeout(b.Timeout),
		api.WithRateLimit(b.RPS, b.Burst),
		api.WithObserver(m.metrics),
		api.WithLogger(m.log),
	}
	tlsCfg, err := tlsroots.ClientConfig(b.CAFile)
	if err != nil {
		return nil, fmt.Errorf("backend.cafile: %w", err)
	}
	if tlsCfg != nil {
		opts = append(opts, api.WithTLSConfig(tlsCfg))
	}
	return api.New(b.URL, tokens, opts...), nil
}

// Reconfigure switches to cfg. The client is rebuilt on next use. The
// Store is reopened only when its location or sealing changed.
func (m *Manager) Reconfigure(cfg *config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.cfg
	m.cfg = cfg
	m.client = nil

	if m.store != nil && m.backend == nil && sessionChanged(old, cfg) {
		err := m.store.Close()
		m.store = nil
		if err != nil {
			return fmt.Errorf("close session: %w", err)
		}
	}
	m.log.Debug("configuration applied", "backend", cfg.Backend.URL)
	return nil
}

func sessionChanged(a, b *config.Config) bool {
	return a.Session.Store != b.Session.Store ||
		a.SessionPath() != b.SessionPath() ||
		a.Session.Passphrase != b.Session.Passphrase
}

// Close releases the Store.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.client = nil
	if m.store == nil {
		return nil
	}
	err := m.store.Close()
	m.store = nil
	return err
}
