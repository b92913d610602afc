// Package sealedbox encrypts values for GitHub Actions secrets.
//
// GitHub decrypts secrets with libsodium's crypto_box_seal, so values must be
// sealed anonymously against the repository public key: an ephemeral
// Curve25519 key pair is generated per call and only the holder of the
// repository private key can open the result.
package sealedbox

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
)

// KeySize is the length of a Curve25519 public key in bytes
const KeySize = 32

// randReader is the entropy source for ephemeral keys
var randReader io.Reader = rand.Reader

// DecodePublicKey decodes a base64 public key as returned by the GitHub API
func DecodePublicKey(publicKey string) (*[KeySize]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return nil, fmt.Errorf("public key is not valid base64: %w", err)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("public key has %d bytes, want %d", len(raw), KeySize)
	}

	var key [KeySize]byte
	copy(key[:], raw)
	return &key, nil
}

// Encrypt seals plaintext for the holder of publicKey and returns the
// base64-encoded ciphertext
func Encrypt(publicKey string, plaintext string) (string, error) {
	recipient, err := DecodePublicKey(publicKey)
	if err != nil {
		return "", err
	}

	sealed, err := box.SealAnonymous(nil, []byte(plaintext), recipient, randReader)
	if err != nil {
		return "", fmt.Errorf("failed to seal secret: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a base64 sealed box with the recipient key pair
func Decrypt(ciphertext string, publicKey, privateKey *[KeySize]byte) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("ciphertext is not valid base64: %w", err)
	}

	opened, ok := box.OpenAnonymous(nil, sealed, publicKey, privateKey)
	if !ok {
		return "", fmt.Errorf("failed to open sealed box")
	}

	return string(opened), nil
}

// GenerateKey returns a fresh recipient key pair
func GenerateKey() (publicKey, privateKey *[KeySize]byte, err error) {
	return box.GenerateKey(randReader)
}

// SelfTest verifies that sealing works in this build: it seals a probe
// value against a throwaway key pair and opens it again.
func SelfTest() error {
	pub, priv, err := GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	probe := []byte("gamecache sealed box probe")
	sealed, err := box.SealAnonymous(nil, probe, pub, randReader)
	if err != nil {
		return fmt.Errorf("failed to seal probe: %w", err)
	}

	opened, ok := box.OpenAnonymous(nil, sealed, pub, priv)
	if !ok || !bytes.Equal(opened, probe) {
		return fmt.Errorf("sealed probe did not round-trip")
	}

	return nil
}
