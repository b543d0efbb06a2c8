package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// BadgerKV implements KV using Badger v3.
type BadgerKV struct {
	db     *badger.DB
	cfg    Config
	logger *slog.Logger

	closed     atomic.Bool
	lastGCTime atomic.Int64 // Unix milliseconds
	gcRuns     atomic.Uint64

	// Prometheus metrics
	metricsTotalSize  prometheus.Gauge
	metricsLastGCTime prometheus.Gauge
	metricsGCRuns     prometheus.Counter

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// OpenBadger opens (or creates) a Badger store in cfg.Dir.
func OpenBadger(cfg Config, logger *slog.Logger) (*BadgerKV, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}
	if cfg.MemTableSize > 0 {
		opts.MemTableSize = cfg.MemTableSize
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	kv := &BadgerKV{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go kv.gcLoop()

	logger.Debug("badger store opened", "dir", cfg.Dir, "gc_interval", cfg.GCInterval)
	return kv, nil
}

// Get retrieves a value by key.
func (k *BadgerKV) Get(ctx context.Context, key []byte) ([]byte, error) {
	if k.closed.Load() {
		return nil, ErrClosed
	}

	var value []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a key-value pair.
func (k *BadgerKV) Set(ctx context.Context, key, value []byte) error {
	if k.closed.Load() {
		return ErrClosed
	}
	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key.
func (k *BadgerKV) Delete(ctx context.Context, key []byte) error {
	if k.closed.Load() {
		return ErrClosed
	}
	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// GC runs value-log garbage collection until Badger reports nothing left
// to rewrite.
func (k *BadgerKV) GC(ctx context.Context) error {
	if k.closed.Load() {
		return ErrClosed
	}

	runs := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := k.db.RunValueLogGC(k.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
				break
			}
			return fmt.Errorf("gc: %w", err)
		}
		runs++
	}

	k.lastGCTime.Store(time.Now().UnixMilli())
	k.gcRuns.Add(uint64(runs))
	if k.metricsGCRuns != nil {
		k.metricsGCRuns.Add(float64(runs))
	}

	k.logger.Debug("gc completed", "rewrites", runs)
	return nil
}

// Stats returns storage statistics.
func (k *BadgerKV) Stats(ctx context.Context) (*KVStats, error) {
	if k.closed.Load() {
		return nil, ErrClosed
	}
	lsm, vlog := k.db.Size()
	return &KVStats{
		TotalSize:    uint64(lsm + vlog),
		LSMSize:      uint64(lsm),
		ValueLogSize: uint64(vlog),
		LastGCTime:   k.lastGCTime.Load(),
		GCRuns:       k.gcRuns.Load(),
	}, nil
}

// Close stops the GC loop and closes the database. It is safe to call more
// than once.
func (k *BadgerKV) Close() error {
	var err error
	k.closeOnce.Do(func() {
		k.closed.Store(true)
		close(k.stopCh)
		<-k.doneCh
		if cerr := k.db.Close(); cerr != nil {
			err = fmt.Errorf("close db: %w", cerr)
		}
	})
	return err
}

// RegisterMetrics registers size and GC metrics with Prometheus. When a
// previous store already registered them, that store's collectors are
// taken over.
func (k *BadgerKV) RegisterMetrics(registry prometheus.Registerer) *BadgerKV {
	k.metricsTotalSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "moneygrowth",
		Subsystem: "badger",
		Name:      "total_size_bytes",
		Help:      "Badger total storage size in bytes (LSM + value log)",
	})
	k.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "moneygrowth",
		Subsystem: "badger",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last Badger GC run",
	})
	k.metricsGCRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moneygrowth",
		Subsystem: "badger",
		Name:      "gc_rewrites_total",
		Help:      "Value log rewrites performed by Badger garbage collection",
	})

	k.metricsTotalSize = adopt(registry, k.metricsTotalSize)
	k.metricsLastGCTime = adopt(registry, k.metricsLastGCTime)
	k.metricsGCRuns = adopt(registry, k.metricsGCRuns)
	k.refreshMetrics()
	return k
}

func adopt[C prometheus.Collector](registry prometheus.Registerer, c C) C {
	if err := registry.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (k *BadgerKV) refreshMetrics() {
	if k.metricsTotalSize == nil {
		return
	}
	stats, err := k.Stats(context.Background())
	if err != nil {
		return
	}
	k.metricsTotalSize.Set(float64(stats.TotalSize))
	if stats.LastGCTime > 0 {
		k.metricsLastGCTime.Set(float64(stats.LastGCTime) / 1000.0)
	}
}

// gcLoop runs periodic garbage collection.
func (k *BadgerKV) gcLoop() {
	defer close(k.doneCh)

	if k.cfg.GCInterval == "" || k.cfg.GCInterval == "0" {
		<-k.stopCh
		return
	}
	interval, err := time.ParseDuration(k.cfg.GCInterval)
	if err != nil || interval <= 0 {
		k.logger.Warn("invalid gc_interval, using default 10m", "value", k.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := k.GC(ctx); err != nil && !errors.Is(err, ErrClosed) {
				k.logger.Warn("auto gc failed", "error", err)
			}
			cancel()
			k.refreshMetrics()

		case <-k.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface. Badger's
// info chatter is demoted to debug so it never reaches a CLI user.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

var _ KV = (*BadgerKV)(nil)
