package cipher

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSealKeySize is returned when the pre-shared key has the wrong length.
var ErrSealKeySize = fmt.Errorf("cipher: seal key must be %d bytes", chacha20poly1305.KeySize)

// Seal encrypts the serialized payload under a pre-shared key using
// XChaCha20-Poly1305. Unlike the BE codec the key never travels with the
// message, so sealed details stay opaque to every realm that was not given
// the key out of band. Output is "BS:" + base64(nonce || ciphertext).
func Seal(plaintext string, key []byte) (string, error) {
	if len(key) != chacha20poly1305.KeySize {
		return "", ErrSealKeySize
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cipher: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed detail. Any malformed or tampered input returns an
// error so the receiver can degrade the broadcast to an empty detail.
func Open(encoded string, key []byte) (string, error) {
	if len(key) != chacha20poly1305.KeySize {
		return "", ErrSealKeySize
	}
	body, ok := strings.CutPrefix(encoded, sealedPrefix)
	if !ok {
		return "", fmt.Errorf("cipher: missing %q marker", sealedPrefix)
	}
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("cipher: decode sealed payload: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("cipher: sealed payload too short")
	}
	nonce, ct := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("cipher: open sealed payload: %w", err)
	}
	return string(plain), nil
}
