package credential

import (
	"context"
	"fmt"

	"github.com/lcgerke/gamecache-secrets/internal/remote"
)

// TokenStore is the part of the Vault client used as a token source
type TokenStore interface {
	IsReachable(ctx context.Context) bool
	GetToken(ctx context.Context, path string) (string, error)
}

// VaultSource reads a token from a Vault KVv2 secret
type VaultSource struct {
	store TokenStore
	path  string
}

// NewVaultSource creates a source reading the secret at path
func NewVaultSource(store TokenStore, path string) *VaultSource {
	return &VaultSource{store: store, path: path}
}

func (s *VaultSource) Name() string {
	return "vault:" + s.path
}

// Load treats an unreachable Vault or a missing secret as an empty source
func (s *VaultSource) Load(ctx context.Context) (*Token, error) {
	if !s.store.IsReachable(ctx) {
		remote.Debugf("Vault unreachable, skipping %s", s.Name())
		return nil, fmt.Errorf("%w: vault unreachable", ErrSourceEmpty)
	}

	token, err := s.store.GetToken(ctx, s.path)
	if err != nil {
		remote.Debugf("No token in %s: %v", s.Name(), err)
		return nil, fmt.Errorf("%w: %v", ErrSourceEmpty, err)
	}

	return &Token{
		AccessToken: token,
		Source:      s.Name(),
	}, nil
}
