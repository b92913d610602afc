package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lcgerke/gamecache-secrets/internal/constants"
	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
)

// FileSource reads a token.json file written by the GitHub device flow
type FileSource struct {
	path   string
	legacy bool
}

// NewFileSource creates a source for the token file at path
func NewFileSource(path string, legacy bool) *FileSource {
	return &FileSource{path: path, legacy: legacy}
}

func (s *FileSource) Name() string {
	return s.path
}

func (s *FileSource) Load(ctx context.Context) (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceEmpty, s.path)
		}
		return nil, perrors.CredentialUnreadable(s.path, err)
	}

	token, err := parseTokenFile(data)
	if err != nil {
		return nil, perrors.MalformedCredential(s.path, err)
	}

	return &Token{
		AccessToken: token,
		Source:      s.path,
		Path:        s.path,
		Legacy:      s.legacy,
		Raw:         data,
	}, nil
}

// parseTokenFile extracts access_token from a token.json document
func parseTokenFile(data []byte) (string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("not a JSON object: %w", err)
	}

	raw, ok := doc[constants.TokenField]
	if !ok {
		return "", fmt.Errorf("missing %s field", constants.TokenField)
	}

	token, ok := raw.(string)
	if !ok || token == "" {
		return "", fmt.Errorf("%s is not a non-empty string", constants.TokenField)
	}

	return token, nil
}
