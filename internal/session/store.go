package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/yndnr/moneygrowth-go/internal/telemetry/logger"
)

// Session errors.
var (
	// ErrSealedToken indicates the persisted token could not be unsealed,
	// either because no passphrase was given or because it was wrong.
	ErrSealedToken = errors.New("session: persisted token is sealed and cannot be opened")

	// ErrBackendClosed is returned by backend operations after Close.
	ErrBackendClosed = errors.New("session: backend closed")
)

// State is the authentication state of a Store.
type State int

const (
	// Anonymous means no token is held.
	Anonymous State = iota
	// Authenticated means a non-empty token is held.
	Authenticated
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Store is the single source of truth for the bearer token.
//
// Writes are serialized by a mutex and reach the backend before the
// in-memory slot changes, so a reader never observes a token that failed to
// persist or one that was already cleared.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	sealer  *Sealer
	token   string
	log     logger.Logger

	subMu sync.Mutex
	subs  []func(State)
}

// Option configures a Store.
type Option func(*Store)

// WithSealer encrypts the token at rest.
func WithSealer(s *Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l logger.Logger) Option {
	return func(st *Store) { st.log = l }
}

// Open builds a Store and loads whatever token the backend persisted.
//
// If the persisted value is sealed and cannot be opened, Open still returns
// a usable anonymous Store together with an error wrapping ErrSealedToken.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("session: backend is required")
	}

	s := &Store{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Default()
	}

	raw, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}

	token, err := s.unseal(raw)
	if err != nil {
		s.log.Warn("persisted session could not be opened", "error", err)
		return s, err
	}
	s.token = token

	s.log.Debug("session opened", "state", s.stateLocked().String())
	return s, nil
}

// SetToken persists token verbatim, replacing any previous value. Only the
// empty string means "no token"; it always removes the persisted value, even
// one this store could not open. Setting the current non-empty value again
// is a no-op.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	if token != "" && token == s.token {
		s.mu.Unlock()
		return nil
	}
	changed := token != s.token

	if token == "" {
		if err := s.backend.Clear(ctx); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("session: clear: %w", err)
		}
	} else {
		value, err := s.seal(token)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if err := s.backend.Save(ctx, value); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("session: save: %w", err)
		}
	}

	s.token = token
	state := s.stateLocked()
	s.mu.Unlock()

	if !changed {
		return nil
	}
	s.log.Debug("session updated", "state", state.String())
	s.notify(state)
	return nil
}

// Clear logs out. It is equivalent to SetToken(ctx, "").
func (s *Store) Clear(ctx context.Context) error {
	return s.SetToken(ctx, "")
}

// IsAuthenticated reports whether a non-empty token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	if s.token == "" {
		return Anonymous
	}
	return Authenticated
}

// Token returns the raw token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// AuthHeader returns an empty header when anonymous, otherwise a header
// with a single "Authorization: Bearer <token>" entry. The caller owns the
// returned value.
func (s *Store) AuthHeader() http.Header {
	h := make(http.Header)
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// Fingerprint returns a short, stable identifier of the token suitable for
// display. It is "" when anonymous.
func (s *Store) Fingerprint() string {
	token := s.Token()
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])[:12]
}

// Claims decodes the token's JWT claims for display. The signature is not
// verified and the result never affects IsAuthenticated.
func (s *Store) Claims() (Claims, bool) {
	token := s.Token()
	if token == "" {
		return Claims{}, false
	}
	return ParseClaims(token)
}

// Subscribe registers fn to be called after every token change with the
// resulting state. Callbacks run synchronously on the writer's goroutine.
func (s *Store) Subscribe(fn func(State)) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Close releases the backend. The in-memory token is kept.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) seal(token string) (string, error) {
	if s.sealer == nil {
		return token, nil
	}
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return "", fmt.Errorf("session: seal: %w", err)
	}
	return sealed, nil
}

func (s *Store) unseal(raw string) (string, error) {
	if !IsSealed(raw) {
		return raw, nil
	}
	if s.sealer == nil {
		return "", fmt.Errorf("%w: no passphrase configured", ErrSealedToken)
	}
	return s.sealer.Open(raw)
}
