// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// sealingSalt binds derived keys to this application's credential store.
	sealingSalt = "movietrailer-credential-store"

	// sealingInfo is the HKDF info parameter, versioned so the derivation
	// can rotate without invalidating the salt.
	sealingInfo = "api-key-sealing-v1"

	aesKeySize   = 32
	gcmNonceSize = 12
)

var (
	// ErrEmptySecret is returned when no master secret is provided.
	ErrEmptySecret = errors.New("master secret cannot be empty")

	// ErrEmptyValue is returned when sealing an empty value.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrDecryptionFailed is returned when a stored value cannot be opened:
	// wrong master secret, tampered data, or a failed authentication tag.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or authentication tag")

	// ErrInvalidCiphertext is returned when the stored format is not valid.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// ErrCiphertextTooShort is returned when the stored value is shorter
	// than a nonce plus an authentication tag.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// sealer provides AES-256-GCM authenticated encryption for stored
// credentials. The key is derived from the configured master secret with
// HKDF-SHA256, so sealed values are bound to this application and this
// purpose. Sealed format: base64(nonce || ciphertext || tag).
type sealer struct {
	aead cipher.AEAD
}

func newSealer(masterSecret string) (*sealer, error) {
	if masterSecret == "" {
		return nil, ErrEmptySecret
	}

	key, err := deriveKey(masterSecret)
	if err != nil {
		return nil, fmt.Errorf("derive sealing key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &sealer{aead: aead}, nil
}

// Seal encrypts value with a fresh random nonce.
func (s *sealer) Seal(value string) (string, error) {
	if value == "" {
		return "", ErrEmptyValue
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", ErrInvalidCiphertext
	}

	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode failed: %s", ErrInvalidCiphertext, err.Error())
	}

	minLength := gcmNonceSize + 1 + s.aead.Overhead()
	if len(data) < minLength {
		return "", ErrCiphertextTooShort
	}

	nonce := data[:gcmNonceSize]
	plaintext, err := s.aead.Open(nil, nonce, data[gcmNonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// deriveKey derives the 256-bit AES key from the master secret.
func deriveKey(masterSecret string) ([]byte, error) {
	reader := hkdf.New(sha256.New, []byte(masterSecret), []byte(sealingSalt), []byte(sealingInfo))

	key := make([]byte, aesKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("read HKDF output: %w", err)
	}
	return key, nil
}

// Mask returns a loggable form of a credential: asterisks plus the last
// four characters.
func Mask(credential string) string {
	if credential == "" {
		return ""
	}
	if len(credential) <= 4 {
		return "****"
	}
	return "****..." + credential[len(credential)-4:]
}
