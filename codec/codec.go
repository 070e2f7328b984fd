package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Encrypt seals text with AES-GCM under key. The nonce is prepended to the
// ciphertext and the result is URL safe base64.
func Encrypt(key, text []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(text)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encrypt: could not read nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(aead.Seal(nonce, nonce, text, nil)), nil
}

// Decrypt opens a value produced by Encrypt. Tampered values fail authentication.
func Decrypt(key []byte, text string) ([]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decrypt: error decoding base64: %w", err)
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("decrypt: ciphertext too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	data, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return data, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Sealer hides the resumption key carried in the submission cookie.
// A nil key leaves values as they are.
type Sealer struct {
	key []byte
}

// NewSealer accepts AES-128, AES-192 or AES-256 keys.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) == 0 {
		return &Sealer{}, nil
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("newSealer: invalid key size %d", len(key))
	}
	return &Sealer{key: key}, nil
}

func (s *Sealer) Seal(value string) (string, error) {
	if s == nil || len(s.key) == 0 {
		return value, nil
	}
	return Encrypt(s.key, []byte(value))
}

func (s *Sealer) Open(sealed string) (string, error) {
	if s == nil || len(s.key) == 0 {
		return sealed, nil
	}
	b, err := Decrypt(s.key, sealed)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(b), nil
}
