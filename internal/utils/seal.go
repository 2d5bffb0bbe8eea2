package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// ErrSealBroken is returned when a sealed payload fails authentication.
var ErrSealBroken = errors.New("sealed payload is corrupt or was sealed with another key")

const nonceSize = 24

// sealKey stretches an arbitrary secret to a secretbox key.
func sealKey(secret string) *[32]byte {
	k := sha256.Sum256([]byte(secret))
	return &k
}

// Seal encrypts and authenticates msg with secret.  The result is URL-safe
// base64 of nonce followed by the box, short enough for a QR code.
func Seal(secret string, msg []byte) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	out := secretbox.Seal(nonce[:], msg, &nonce, sealKey(secret))
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func Open(secret, sealed string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, ErrSealBroken
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return nil, ErrSealBroken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	msg, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, sealKey(secret))
	if !ok {
		return nil, ErrSealBroken
	}
	return msg, nil
}
