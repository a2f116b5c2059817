package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sb1:"
	nonceSize    = 24
	keySize      = 32
)

var (
	ErrSealingKeyMissing  = errors.New("value is sealed but no sealing key is configured")
	ErrSealedValueCorrupt = errors.New("sealed value is corrupt or was sealed with another key")
)

// Sealer encrypts secrets at rest with NaCl secretbox. A Sealer without a key
// stores values as plaintext, and values without the seal prefix are always
// read as plaintext so rows written before sealing was enabled keep working.
type Sealer struct {
	key *[keySize]byte
}

func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return &Sealer{}, nil
	}

	var key [keySize]byte
	kdf := hkdf.New(sha256.New, []byte(passphrase), nil, []byte("coursehub credential sealing"))
	if _, err := io.ReadFull(kdf, key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive sealing key: %w", err)
	}
	return &Sealer{key: &key}, nil
}

func (s *Sealer) Enabled() bool { return s != nil && s.key != nil }

func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() {
		return plaintext, nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, s.key)
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(box), nil
}

func (s *Sealer) Open(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	if !s.Enabled() {
		return "", ErrSealingKeyMissing
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrSealedValueCorrupt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, s.key)
	if !ok {
		return "", ErrSealedValueCorrupt
	}
	return string(plain), nil
}
