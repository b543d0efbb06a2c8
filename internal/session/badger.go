package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/yndnr/moneygrowth-go/internal/storage"
)

// tokenKey is the Badger key holding the token.
var tokenKey = []byte("session/token")

// BadgerBackend stores the token under one key of a storage.KV.
type BadgerBackend struct {
	kv     storage.KV
	owned  bool
	closed atomic.Bool
}

// NewBadgerBackend wraps an existing store. Close does not close kv.
func NewBadgerBackend(kv storage.KV) *BadgerBackend {
	return &BadgerBackend{kv: kv}
}

// OpenBadgerBackend opens a Badger store in dir that the backend owns and
// closes on Close.
func OpenBadgerBackend(dir string, logger *slog.Logger) (*BadgerBackend, error) {
	kv, err := storage.OpenBadger(storage.DefaultConfig(dir), logger)
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{kv: kv, owned: true}, nil
}

// KV returns the underlying store.
func (b *BadgerBackend) KV() storage.KV { return b.kv }

// Load reads the token key.
func (b *BadgerBackend) Load(ctx context.Context) (string, error) {
	if b.closed.Load() {
		return "", ErrBackendClosed
	}
	v, err := b.kv.Get(ctx, tokenKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Save writes the token key.
func (b *BadgerBackend) Save(ctx context.Context, value string) error {
	if b.closed.Load() {
		return ErrBackendClosed
	}
	return b.kv.Set(ctx, tokenKey, []byte(value))
}

// Clear deletes the token key.
func (b *BadgerBackend) Clear(ctx context.Context) error {
	if b.closed.Load() {
		return ErrBackendClosed
	}
	return b.kv.Delete(ctx, tokenKey)
}

// Close closes the store if the backend opened it.
func (b *BadgerBackend) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	if b.owned {
		return b.kv.Close()
	}
	return nil
}

var _ Backend = (*BadgerBackend)(nil)
