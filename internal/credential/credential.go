// Package credential locates the GitHub token the GameCache download script
// stored on disk, trying an ordered list of sources.
package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lcgerke/gamecache-secrets/internal/constants"
	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
	"github.com/lcgerke/gamecache-secrets/internal/remote"
)

// ErrSourceEmpty is returned by a Source that holds no token, so the next
// source should be tried
var ErrSourceEmpty = errors.New("no token in source")

// Token is a resolved GitHub access token
type Token struct {
	AccessToken string
	// Source describes where the token was found
	Source string
	// Path is the token file, empty for non-file sources
	Path string
	// Legacy is set when the token came from the pre-rename location
	Legacy bool
	// Raw is the token file exactly as read
	Raw []byte
}

// Source is one place a token may be stored
type Source interface {
	Name() string
	Load(ctx context.Context) (*Token, error)
}

// Resolver tries sources in order; the first one holding a token wins
type Resolver struct {
	sources   []Source
	preferred string
}

// NewResolver creates a resolver. preferred is where tokens loaded from a
// legacy file are migrated to.
func NewResolver(preferred string, sources ...Source) *Resolver {
	return &Resolver{
		sources:   sources,
		preferred: preferred,
	}
}

// DefaultTokenPaths returns the preferred and legacy token file locations
// under home
func DefaultTokenPaths(home string) (preferred, legacy string) {
	preferred = filepath.Join(home, constants.PreferredTokenDir, constants.TokenFileName)
	legacy = filepath.Join(home, constants.LegacyTokenDir, constants.TokenFileName)
	return preferred, legacy
}

// NewDefaultResolver tries the preferred token file, then the legacy one,
// then any extra sources
func NewDefaultResolver(home string, extra ...Source) *Resolver {
	preferred, legacy := DefaultTokenPaths(home)
	sources := []Source{
		NewFileSource(preferred, false),
		NewFileSource(legacy, true),
	}
	return NewResolver(preferred, append(sources, extra...)...)
}

// Resolve returns the first token found. Reading or parsing errors from an
// existing token file are returned as is; they do not fall through.
func (r *Resolver) Resolve(ctx context.Context) (*Token, error) {
	names := make([]string, 0, len(r.sources))

	for _, src := range r.sources {
		names = append(names, src.Name())

		tok, err := src.Load(ctx)
		if err != nil {
			if errors.Is(err, ErrSourceEmpty) {
				continue
			}
			return nil, err
		}

		remote.LogTokenResolution(tok.Source)
		return tok, nil
	}

	return nil, perrors.CredentialNotFound(names)
}

// NeedsMigration reports whether tok should be copied to the preferred path
func (r *Resolver) NeedsMigration(tok *Token) bool {
	return tok != nil && tok.Legacy && r.preferred != "" && tok.Path != r.preferred
}

// Migrate copies a legacy token file to the preferred location, readable by
// the owner only. It returns the path written.
func (r *Resolver) Migrate(tok *Token) (string, error) {
	if !r.NeedsMigration(tok) {
		return "", nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(tok.Raw), "", "  "); err != nil {
		return "", fmt.Errorf("failed to format token: %w", err)
	}
	buf.WriteByte('\n')

	if err := os.MkdirAll(filepath.Dir(r.preferred), constants.TokenDirMode); err != nil {
		return "", fmt.Errorf("failed to create token directory: %w", err)
	}

	if err := os.WriteFile(r.preferred, buf.Bytes(), constants.TokenFileMode); err != nil {
		return "", fmt.Errorf("failed to write token file: %w", err)
	}

	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(r.preferred, constants.TokenFileMode); err != nil {
		return "", fmt.Errorf("failed to restrict token file permissions: %w", err)
	}

	return r.preferred, nil
}
