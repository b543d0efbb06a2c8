package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openMemory(t *testing.T, initial string, opts ...Option) (*Store, *MemoryBackend) {
	t.Helper()
	b := NewMemoryBackend(initial)
	s, err := Open(context.Background(), b, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, b
}

func TestStore_SetTokenAuthenticates(t *testing.T) {
	tokens := []string{"a", "abc.def.ghi", "token with spaces inside", "üñïçødé", " ", " abc", "abc\t"}

	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			s, _ := openMemory(t, "")
			if err := s.SetToken(context.Background(), tok); err != nil {
				t.Fatalf("SetToken() error = %v", err)
			}
			if !s.IsAuthenticated() {
				t.Error("IsAuthenticated() = false after SetToken")
			}
			h := s.AuthHeader()
			if got := h.Get("Authorization"); got != "Bearer "+tok {
				t.Errorf("Authorization = %q, want %q", got, "Bearer "+tok)
			}
			if len(h) != 1 || len(h.Values("Authorization")) != 1 {
				t.Errorf("AuthHeader() = %v, want exactly one entry", h)
			}
		})
	}
}

func TestStore_ClearMakesAnonymous(t *testing.T) {
	s, b := openMemory(t, "persisted")
	ctx := context.Background()

	if !s.IsAuthenticated() {
		t.Fatal("initial state should come from the backend")
	}

	if err := s.SetToken(ctx, ""); err != nil {
		t.Fatalf("SetToken(\"\") error = %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after clearing")
	}
	if h := s.AuthHeader(); len(h) != 0 {
		t.Errorf("AuthHeader() = %v, want empty", h)
	}
	if b.Value() != "" {
		t.Errorf("backend value = %q, want empty", b.Value())
	}

	// Clear on an already anonymous store is harmless.
	if err := s.Clear(ctx); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
}

func TestStore_SetTokenIdempotent(t *testing.T) {
	once, _ := openMemory(t, "")
	twice, _ := openMemory(t, "")
	ctx := context.Background()

	_ = once.SetToken(ctx, "T")
	_ = twice.SetToken(ctx, "T")
	_ = twice.SetToken(ctx, "T")

	if once.IsAuthenticated() != twice.IsAuthenticated() {
		t.Error("IsAuthenticated differs after repeated SetToken")
	}
	if once.AuthHeader().Get("Authorization") != twice.AuthHeader().Get("Authorization") {
		t.Error("AuthHeader differs after repeated SetToken")
	}
}

func TestStore_Rotation(t *testing.T) {
	s, b := openMemory(t, "old")
	if err := s.SetToken(context.Background(), "new"); err != nil {
		t.Fatal(err)
	}
	if s.Token() != "new" || b.Value() != "new" {
		t.Errorf("Token() = %q, backend = %q, want new", s.Token(), b.Value())
	}
	if s.State() != Authenticated {
		t.Errorf("State() = %v, want authenticated", s.State())
	}
}

func TestStore_FailedSaveKeepsPreviousToken(t *testing.T) {
	s, b := openMemory(t, "old")
	b.SaveErr = errors.New("disk full")

	err := s.SetToken(context.Background(), "new")
	if err == nil {
		t.Fatal("SetToken() should fail when the backend fails")
	}
	if s.Token() != "old" {
		t.Errorf("Token() = %q, want old", s.Token())
	}
}

func TestStore_Subscribe(t *testing.T) {
	s, _ := openMemory(t, "")
	ctx := context.Background()

	var got []State
	s.Subscribe(func(st State) { got = append(got, st) })

	_ = s.SetToken(ctx, "a")
	_ = s.SetToken(ctx, "a") // no change, no callback
	_ = s.SetToken(ctx, "b")
	_ = s.Clear(ctx)

	want := []State{Authenticated, Authenticated, Anonymous}
	if len(got) != len(want) {
		t.Fatalf("callbacks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("callback[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStore_Fingerprint(t *testing.T) {
	s, _ := openMemory(t, "")
	if s.Fingerprint() != "" {
		t.Error("Fingerprint() should be empty when anonymous")
	}
	_ = s.SetToken(context.Background(), "secret-token")
	fp := s.Fingerprint()
	if len(fp) != 12 {
		t.Errorf("Fingerprint() = %q, want 12 hex chars", fp)
	}
	if fp == "secret-token"[:12] {
		t.Error("Fingerprint() must not expose the token")
	}
}

func TestStore_SealedRoundTrip(t *testing.T) {
	sealer := newTestSealer(t, "correct horse")
	b := NewMemoryBackend("")
	ctx := context.Background()

	s, err := Open(ctx, b, WithSealer(sealer))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetToken(ctx, "jwt-value"); err != nil {
		t.Fatal(err)
	}
	if !IsSealed(b.Value()) {
		t.Fatalf("backend value %q should be sealed", b.Value())
	}

	reopened, err := Open(ctx, b, WithSealer(sealer))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if reopened.Token() != "jwt-value" {
		t.Errorf("Token() = %q, want jwt-value", reopened.Token())
	}
}

func TestStore_SealedWithoutPassphrase(t *testing.T) {
	sealer := newTestSealer(t, "correct horse")
	envelope, err := sealer.Seal("jwt-value")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts []Option
	}{
		{"no sealer", nil},
		{"wrong passphrase", []Option{WithSealer(newTestSealer(t, "battery staple"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), NewMemoryBackend(envelope), tt.opts...)
			if !errors.Is(err, ErrSealedToken) {
				t.Fatalf("Open() error = %v, want ErrSealedToken", err)
			}
			if s == nil {
				t.Fatal("Open() should return a usable store")
			}
			if s.IsAuthenticated() {
				t.Error("store should be anonymous")
			}
		})
	}
}

func TestStore_ClearRemovesUnopenableToken(t *testing.T) {
	sealer := newTestSealer(t, "correct horse")
	envelope, err := sealer.Seal("jwt-value")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		clear func(context.Context, *Store) error
	}{
		{"Clear", func(ctx context.Context, s *Store) error { return s.Clear(ctx) }},
		{"SetToken empty", func(ctx context.Context, s *Store) error { return s.SetToken(ctx, "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b := NewMemoryBackend(envelope)
			s, err := Open(ctx, b)
			if !errors.Is(err, ErrSealedToken) {
				t.Fatalf("Open() error = %v, want ErrSealedToken", err)
			}

			if err := tt.clear(ctx, s); err != nil {
				t.Fatalf("clear error = %v", err)
			}
			if b.Value() != "" {
				t.Errorf("backend value = %q, want empty", b.Value())
			}

			reopened, err := Open(ctx, b, WithSealer(sealer))
			if err != nil {
				t.Fatalf("reopen error = %v", err)
			}
			if reopened.IsAuthenticated() {
				t.Error("cleared session came back after reopening with the passphrase")
			}
		})
	}
}

func TestStore_TokensPersistVerbatim(t *testing.T) {
	tests := []string{" ", " abc", "abc ", "\tabc"}

	for _, tok := range tests {
		t.Run(tok, func(t *testing.T) {
			ctx := context.Background()
			b := NewFileBackend(filepath.Join(t.TempDir(), "session"))
			s, err := Open(ctx, b)
			if err != nil {
				t.Fatal(err)
			}
			if err := s.SetToken(ctx, tok); err != nil {
				t.Fatalf("SetToken() error = %v", err)
			}

			reopened, err := Open(ctx, b)
			if err != nil {
				t.Fatalf("reopen error = %v", err)
			}
			if reopened.Token() != tok {
				t.Errorf("Token() = %q, want %q", reopened.Token(), tok)
			}
			if got := reopened.AuthHeader().Get("Authorization"); got != "Bearer "+tok {
				t.Errorf("Authorization = %q, want %q", got, "Bearer "+tok)
			}
		})
	}
}

func TestStore_BackendClosed(t *testing.T) {
	s, _ := openMemory(t, "")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	err := s.SetToken(context.Background(), "x")
	if !errors.Is(err, ErrBackendClosed) {
		t.Errorf("SetToken() after Close error = %v, want ErrBackendClosed", err)
	}
}

func TestState_String(t *testing.T) {
	if Anonymous.String() != "anonymous" || Authenticated.String() != "authenticated" {
		t.Errorf("State strings = %q, %q", Anonymous, Authenticated)
	}
}
