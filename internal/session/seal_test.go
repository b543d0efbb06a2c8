package session

import (
	"errors"
	"strings"
	"testing"
)

// Cheap argon2 parameters keep the tests fast.
var testKDF = KDFParams{Time: 1, Memory: 1024, Threads: 1}

func newTestSealer(t *testing.T, passphrase string, opts ...SealerOption) *Sealer {
	t.Helper()
	s, err := NewSealer(passphrase, append([]SealerOption{WithKDFParams(testKDF)}, opts...)...)
	if err != nil {
		t.Fatalf("NewSealer() error = %v", err)
	}
	return s
}

func TestSealer_RoundTrip(t *testing.T) {
	for _, alg := range []string{CipherAESGCM, CipherChaCha20} {
		t.Run(alg, func(t *testing.T) {
			s := newTestSealer(t, "passphrase-1", WithCipher(alg))

			env, err := s.Seal("eyJhbGciOiJIUzI1NiJ9.e30.sig")
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(env, "mgs1:"+alg+":") {
				t.Errorf("envelope = %q, want mgs1:%s: prefix", env, alg)
			}
			if strings.Contains(env, "eyJ") {
				t.Error("envelope leaks plaintext")
			}

			got, err := s.Open(env)
			if err != nil {
				t.Fatal(err)
			}
			if got != "eyJhbGciOiJIUzI1NiJ9.e30.sig" {
				t.Errorf("Open() = %q", got)
			}
		})
	}
}

func TestSealer_FreshSaltPerSeal(t *testing.T) {
	s := newTestSealer(t, "passphrase-1")
	a, _ := s.Seal("same")
	b, _ := s.Seal("same")
	if a == b {
		t.Error("two seals of the same token should differ")
	}
}

func TestSealer_OpenFailures(t *testing.T) {
	s := newTestSealer(t, "passphrase-1", WithCipher(CipherAESGCM))
	good, _ := s.Seal("tok")

	tampered := []byte(good)
	tampered[len(tampered)-2] ^= 0x01

	tests := []struct {
		name     string
		envelope string
	}{
		{"no prefix", "plain"},
		{"no algorithm", "mgs1:abc"},
		{"bad base64", "mgs1:aes-gcm:!!!"},
		{"too short", "mgs1:aes-gcm:AAAA"},
		{"unknown algorithm", strings.Replace(good, CipherAESGCM, "rot13", 1)},
		{"swapped algorithm", strings.Replace(good, CipherAESGCM, CipherChaCha20, 1)},
		{"tampered", string(tampered)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Open(tt.envelope); !errors.Is(err, ErrSealedToken) {
				t.Errorf("Open() error = %v, want ErrSealedToken", err)
			}
		})
	}
}

func TestNewSealer_Validation(t *testing.T) {
	if _, err := NewSealer("short"); !errors.Is(err, ErrPassphraseTooWeak) {
		t.Errorf("NewSealer(short) error = %v", err)
	}
	if _, err := NewSealer("long enough", WithCipher("des")); err == nil {
		t.Error("NewSealer with unknown cipher should fail")
	}
}

func TestIsSealed(t *testing.T) {
	if IsSealed("eyJ.abc.def") {
		t.Error("plain JWT reported as sealed")
	}
	if !IsSealed("mgs1:aes-gcm:xxx") {
		t.Error("envelope not reported as sealed")
	}
}
