// Package cipher provides the in-transit payload codecs. The BE codec is an
// obfuscation layer against casual inspection by intermediate relay realms:
// the key travels inside the wrapper, so it offers no confidentiality against
// a party that can read the full envelope. The BS codec (sealed.go) covers
// that case with a pre-shared AEAD key.
package cipher

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Marker prefixes identifying an encoded detail on the wire.
const (
	encodedPrefix = "BE:"
	sealedPrefix  = "BS:"
)

// ErrEmptyKey is returned when encoding is requested without a key.
var ErrEmptyKey = errors.New("cipher: key is required")

// Encode obfuscates the serialized payload with the given key. Every byte is
// XORed with a position-cycled key byte and with its own index mod 256, so
// repeated plaintext bytes do not map to repeated ciphertext bytes. Output is
// "BE:" + base64 + ":" + key; receivers recover the key from the wrapper.
func Encode(plaintext, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	src := []byte(plaintext)
	kb := []byte(key)
	out := make([]byte, len(src))
	for i, b := range src {
		out[i] = b ^ kb[i%len(kb)] ^ byte(i%256)
	}
	return encodedPrefix + base64.StdEncoding.EncodeToString(out) + ":" + key, nil
}

// Decode reverses Encode. The transform is involutive, so decoding reuses the
// same XOR walk. Malformed input returns an error; callers degrade the
// broadcast to an empty detail instead of failing the receiver.
func Decode(encoded string) (string, error) {
	body, ok := strings.CutPrefix(encoded, encodedPrefix)
	if !ok {
		return "", fmt.Errorf("cipher: missing %q marker", encodedPrefix)
	}
	sep := strings.LastIndexByte(body, ':')
	if sep <= 0 || sep == len(body)-1 {
		return "", errors.New("cipher: malformed ciphertext, expected payload:key")
	}
	ct, key := body[:sep], body[sep+1:]
	raw, err := base64.StdEncoding.DecodeString(ct)
	if err != nil {
		return "", fmt.Errorf("cipher: decode payload: %w", err)
	}
	kb := []byte(key)
	for i := range raw {
		raw[i] ^= kb[i%len(kb)] ^ byte(i%256)
	}
	return string(raw), nil
}

// IsEncoded reports whether s carries the BE marker.
func IsEncoded(s string) bool {
	return strings.HasPrefix(s, encodedPrefix)
}

// IsSealed reports whether s carries the BS marker.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, sealedPrefix)
}
