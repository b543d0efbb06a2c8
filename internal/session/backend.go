package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Backend persists the single token slot.
//
// Load returns "" with a nil error when nothing is persisted. Clear on an
// empty slot is not an error.
type Backend interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
	Clear(ctx context.Context) error
	Close() error
}

// DefaultPath returns ~/.moneygrowth/session.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".moneygrowth", "session")
}

// FileBackend stores the token in one file with mode 0600.
type FileBackend struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// NewFileBackend returns a FileBackend at path, or DefaultPath when path
// is empty. The file is created on first Save.
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultPath()
	}
	return &FileBackend{path: path}
}

// Path returns the backing file path.
func (b *FileBackend) Path() string { return b.path }

// Load reads the persisted value.
func (b *FileBackend) Load(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", ErrBackendClosed
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// Save writes value through a temp file and rename so a crash never leaves
// a half-written token behind.
func (b *FileBackend) Save(ctx context.Context, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendClosed
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		cleanup()
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Clear removes the file.
func (b *FileBackend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendClosed
	}

	if err := os.Remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close marks the backend closed.
func (b *FileBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

// MemoryBackend keeps the value in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	value  string
	closed bool

	// SaveErr, when set, is returned by Save. Tests use it to simulate a
	// failing disk.
	SaveErr error
}

// NewMemoryBackend returns a MemoryBackend holding initial.
func NewMemoryBackend(initial string) *MemoryBackend {
	return &MemoryBackend{value: initial}
}

// Load returns the held value.
func (b *MemoryBackend) Load(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", ErrBackendClosed
	}
	return b.value, nil
}

// Save replaces the held value.
func (b *MemoryBackend) Save(ctx context.Context, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendClosed
	}
	if b.SaveErr != nil {
		return b.SaveErr
	}
	b.value = value
	return nil
}

// Clear empties the held value.
func (b *MemoryBackend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendClosed
	}
	b.value = ""
	return nil
}

// Close marks the backend closed.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

// Value returns the raw persisted value, sealed or not.
func (b *MemoryBackend) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)
