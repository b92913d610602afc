package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"
)

const userAgent = "gamecache-secrets"

// Client wraps the GitHub API client for one repository
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// PublicKey is the repository Actions public key
// This is a local copy to avoid import cycles
type PublicKey struct {
	KeyID string
	Key   string
}

// Options configures the HTTP side of the client
type Options struct {
	// BaseURL is the API root, https://api.github.com/ when empty
	BaseURL string
	// Timeout bounds every request
	Timeout time.Duration
	// Transport carries requests; http.DefaultTransport when nil
	Transport http.RoundTripper
}

// NewClient creates a GitHub client for a repository authenticated with token
// Supports: owner/repo, https://github.com/owner/repo.git, git@github.com:owner/repo.git
func NewClient(repository, token string, opts Options) (*Client, error) {
	owner, repo, err := ParseRepository(repository)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub repository: %w", err)
	}

	if token == "" {
		return nil, fmt.Errorf("GitHub authentication required: empty token")
	}

	base := &http.Client{Transport: opts.Transport}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = opts.Timeout

	gh := github.NewClient(tc)
	gh.UserAgent = userAgent

	if opts.BaseURL != "" {
		baseURL, err := parseBaseURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		gh.BaseURL = baseURL
	}

	return &Client{
		client: gh,
		owner:  owner,
		repo:   repo,
	}, nil
}

// parseBaseURL parses an API root, adding the trailing slash go-github needs
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", raw)
	}
	return u, nil
}

// ParseRepository extracts owner and repo from owner/name or a GitHub URL
func ParseRepository(repository string) (owner, repo string, err error) {
	repository = strings.TrimSpace(repository)

	switch {
	case strings.HasPrefix(repository, "git@github.com:"):
		// SSH URLs: git@github.com:owner/repo.git
		repository = strings.TrimPrefix(repository, "git@github.com:")
	case strings.Contains(repository, "://"):
		// HTTPS URLs: https://github.com/owner/repo.git
		u, err := url.Parse(repository)
		if err != nil {
			return "", "", err
		}
		if u.Host != "github.com" {
			return "", "", fmt.Errorf("not a GitHub URL: %s", u.Host)
		}
		repository = strings.TrimPrefix(u.Path, "/")
	}

	repository = strings.TrimSuffix(repository, ".git")

	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected owner/name, got %q", repository)
	}

	return parts[0], parts[1], nil
}

// FullName returns owner/repo
func (c *Client) FullName() string {
	return c.owner + "/" + c.repo
}

// GetPublicKey fetches the key Actions secrets must be encrypted with
func (c *Client) GetPublicKey(ctx context.Context) (*PublicKey, error) {
	key, _, err := c.client.Actions.GetRepoPublicKey(ctx, c.owner, c.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository public key: %w", err)
	}

	if key.GetKey() == "" || key.GetKeyID() == "" {
		return nil, fmt.Errorf("repository public key response is missing key or key_id")
	}

	return &PublicKey{
		KeyID: key.GetKeyID(),
		Key:   key.GetKey(),
	}, nil
}

// PutSecret creates or updates an Actions secret with a sealed value
func (c *Client) PutSecret(ctx context.Context, name, keyID, encryptedValue string) error {
	_, err := c.client.Actions.CreateOrUpdateRepoSecret(ctx, c.owner, c.repo, &github.EncryptedSecret{
		Name:           name,
		KeyID:          keyID,
		EncryptedValue: encryptedValue,
	})
	if err != nil {
		// 202 means GitHub queued the write
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return nil
		}
		return fmt.Errorf("failed to create secret %s: %w", name, err)
	}

	return nil
}
