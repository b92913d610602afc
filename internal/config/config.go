package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lcgerke/gamecache-secrets/internal/constants"
)

// ErrRepoNotConfigured is returned when no usable repository is configured
var ErrRepoNotConfigured = errors.New("repository not configured")

// RepoConfig reads github_repo from the project's config.ini
type RepoConfig struct {
	path        string
	key         string
	placeholder string
}

// NewRepoConfig creates a reader for the config file at path. An empty path
// means config.ini in the working directory.
func NewRepoConfig(path string) *RepoConfig {
	if path == "" {
		path = constants.DefaultConfigFile
	}
	return &RepoConfig{
		path:        path,
		key:         constants.RepoConfigKey,
		placeholder: constants.RepoPlaceholder,
	}
}

// Path returns the config file location
func (c *RepoConfig) Path() string {
	return c.path
}

// Repository returns the configured owner/name. Lines are scanned one at a
// time, so text in other lines that is not key = value does not matter. The
// first github_repo line with a usable value wins. ErrRepoNotConfigured is
// returned when the file or key is missing, or every value is empty or the
// setup placeholder.
func (c *RepoConfig) Repository() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", ErrRepoNotConfigured, c.path)
		}
		return "", fmt.Errorf("%w: %v", ErrRepoNotConfigured, err)
	}
	defer f.Close()

	reason := fmt.Sprintf("no %s in %s", c.key, c.path)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		value, ok := c.parseLine(scanner.Text())
		if !ok {
			continue
		}

		switch repo := CleanValue(value); repo {
		case "":
			reason = fmt.Sprintf("%s is empty", c.key)
		case c.placeholder:
			reason = fmt.Sprintf("%s is still the placeholder %s", c.key, c.placeholder)
		default:
			return repo, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", ErrRepoNotConfigured, c.path, err)
	}

	return "", fmt.Errorf("%w: %s", ErrRepoNotConfigured, reason)
}

// parseLine returns the value of a key = value line for the configured key.
// Quoting and inline comments follow dotenv rules; a line dotenv rejects is
// split on its first '='.
func (c *RepoConfig) parseLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, c.key) {
		return "", false
	}
	name, value, found := strings.Cut(line, "=")
	if !found || strings.TrimSpace(name) != c.key {
		return "", false
	}

	values, err := godotenv.Unmarshal(line)
	if err != nil {
		return value, true
	}
	parsed, ok := values[c.key]
	if !ok {
		return value, true
	}
	return parsed, true
}

// CleanValue strips surrounding whitespace and any quote characters left
// around a value
func CleanValue(value string) string {
	return strings.Trim(strings.TrimSpace(value), `"'`)
}
