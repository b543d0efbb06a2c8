package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Envelope format: "mgs1:<alg>:" + base64(salt || nonce || ciphertext).
const (
	sealPrefix = "mgs1:"

	// CipherAESGCM selects AES-256-GCM.
	CipherAESGCM = "aes-gcm"
	// CipherChaCha20 selects ChaCha20-Poly1305.
	CipherChaCha20 = "chacha20-poly1305"

	// MinPassphraseLength is the minimum passphrase length.
	MinPassphraseLength = 8

	saltLength = 16
	keyLength  = 32
)

// ErrPassphraseTooWeak is returned by NewSealer for short passphrases.
var ErrPassphraseTooWeak = errors.New("session: passphrase too weak (minimum 8 characters)")

// KDFParams are the argon2id cost parameters.
type KDFParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultKDFParams returns argon2id parameters suitable for interactive use.
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 3, Memory: 64 * 1024, Threads: 4}
}

// Sealer encrypts tokens with a key derived from a passphrase. Each Seal
// draws a fresh salt and nonce.
type Sealer struct {
	passphrase []byte
	algorithm  string
	params     KDFParams
}

// SealerOption configures a Sealer.
type SealerOption func(*Sealer)

// WithCipher forces an algorithm instead of picking by architecture.
func WithCipher(algorithm string) SealerOption {
	return func(s *Sealer) { s.algorithm = algorithm }
}

// WithKDFParams overrides the argon2id cost.
func WithKDFParams(p KDFParams) SealerOption {
	return func(s *Sealer) { s.params = p }
}

// NewSealer returns a Sealer for passphrase.
func NewSealer(passphrase string, opts ...SealerOption) (*Sealer, error) {
	if len(passphrase) < MinPassphraseLength {
		return nil, ErrPassphraseTooWeak
	}
	s := &Sealer{
		passphrase: []byte(passphrase),
		algorithm:  preferredCipher(),
		params:     DefaultKDFParams(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.algorithm != CipherAESGCM && s.algorithm != CipherChaCha20 {
		return nil, fmt.Errorf("session: unsupported cipher: %s", s.algorithm)
	}
	return s, nil
}

// Algorithm returns the cipher used by Seal.
func (s *Sealer) Algorithm() string { return s.algorithm }

// IsSealed reports whether value is a sealed envelope.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealPrefix)
}

// Seal encrypts token into an envelope.
func (s *Sealer) Seal(token string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	aead, err := s.aead(s.algorithm, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	// The envelope header is authenticated so the algorithm can't be swapped.
	header := sealPrefix + s.algorithm + ":"
	payload := make([]byte, 0, saltLength+len(nonce)+len(token)+aead.Overhead())
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = aead.Seal(payload, nonce, []byte(token), []byte(header))

	return header + base64.RawURLEncoding.EncodeToString(payload), nil
}

// Open decrypts an envelope produced by Seal. Every failure wraps
// ErrSealedToken.
func (s *Sealer) Open(envelope string) (string, error) {
	rest, ok := strings.CutPrefix(envelope, sealPrefix)
	if !ok {
		return "", fmt.Errorf("%w: missing envelope prefix", ErrSealedToken)
	}
	algorithm, encoded, ok := strings.Cut(rest, ":")
	if !ok {
		return "", fmt.Errorf("%w: malformed envelope", ErrSealedToken)
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedToken, err)
	}
	if len(payload) < saltLength {
		return "", fmt.Errorf("%w: envelope too short", ErrSealedToken)
	}

	salt := payload[:saltLength]
	aead, err := s.aead(algorithm, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedToken, err)
	}

	body := payload[saltLength:]
	if len(body) < aead.NonceSize() {
		return "", fmt.Errorf("%w: envelope too short", ErrSealedToken)
	}
	nonce, ciphertext := body[:aead.NonceSize()], body[aead.NonceSize():]

	header := sealPrefix + algorithm + ":"
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(header))
	if err != nil {
		return "", fmt.Errorf("%w: wrong passphrase or corrupted data", ErrSealedToken)
	}
	return string(plain), nil
}

func (s *Sealer) aead(algorithm string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(s.passphrase, salt, s.params.Time, s.params.Memory, s.params.Threads, keyLength)

	switch algorithm {
	case CipherAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case CipherChaCha20:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("unsupported cipher: %s", algorithm)
	}
}

// preferredCipher picks AES-GCM where Go uses hardware AES, else ChaCha20.
func preferredCipher() string {
	switch runtime.GOARCH {
	case "amd64", "arm64", "s390x", "ppc64le":
		return CipherAESGCM
	default:
		return CipherChaCha20
	}
}
