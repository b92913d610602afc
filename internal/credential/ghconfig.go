package credential

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GhConfigSource reads the token the GitHub CLI stores in hosts.yml
type GhConfigSource struct {
	path string
	host string
}

// NewGhConfigSource creates a source for the gh hosts file. An empty path
// means ~/.config/gh/hosts.yml under home.
func NewGhConfigSource(home, path string) *GhConfigSource {
	if path == "" {
		path = filepath.Join(home, ".config", "gh", "hosts.yml")
	}
	return &GhConfigSource{path: path, host: "github.com"}
}

func (s *GhConfigSource) Name() string {
	return s.path
}

func (s *GhConfigSource) Load(ctx context.Context) (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceEmpty, err)
	}

	var hosts map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", ErrSourceEmpty, s.path, err)
	}

	if host, ok := hosts[s.host]; ok {
		if token, ok := host["oauth_token"].(string); ok && token != "" {
			return &Token{
				AccessToken: token,
				Source:      s.path,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: no oauth_token for %s in %s", ErrSourceEmpty, s.host, s.path)
}
