// Package remote provides the interface used to provision secrets on the
// hosting service, plus API error classification and call logging.
package remote

import "context"

// Platform is a repository on the hosting service whose Actions secrets can
// be written
type Platform interface {
	// Secrets
	GetPublicKey(ctx context.Context) (*PublicKey, error)
	PutSecret(ctx context.Context, secret *EncryptedSecret) error

	// Authentication
	AuthenticatedUser(ctx context.Context) (string, error)
}

// PublicKey is the repository key secrets must be sealed against
type PublicKey struct {
	KeyID string
	// Key is the base64-encoded Curve25519 public key
	Key string
}

// EncryptedSecret is a sealed secret ready for upload
type EncryptedSecret struct {
	Name           string
	KeyID          string
	EncryptedValue string
}
