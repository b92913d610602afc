package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
	"github.com/lcgerke/gamecache-secrets/internal/remote/github"
)

// ClientOptions configures platform clients
type ClientOptions struct {
	// APIURL overrides the API root (GitHub Enterprise, tests)
	APIURL string
	// Timeout bounds every request
	Timeout time.Duration
	// Metrics receives one record per API call, may be nil
	Metrics *MetricsCollector
}

// githubClientWrapper wraps github.Client to adapt its types and errors
type githubClientWrapper struct {
	*github.Client
}

// GetPublicKey wraps the github client method to convert types
func (w *githubClientWrapper) GetPublicKey(ctx context.Context) (*PublicKey, error) {
	var key *github.PublicKey
	err := LogOperation("get public key "+w.FullName(), func() error {
		var err error
		key, err = w.Client.GetPublicKey(ctx)
		return err
	})
	if err != nil {
		return nil, perrors.RemoteKeyFetch(w.FullName(), classify(err))
	}

	return &PublicKey{KeyID: key.KeyID, Key: key.Key}, nil
}

// PutSecret uploads a sealed secret, separating HTTP rejections from
// transport failures
func (w *githubClientWrapper) PutSecret(ctx context.Context, secret *EncryptedSecret) error {
	err := LogOperation("put secret "+secret.Name, func() error {
		return w.Client.PutSecret(ctx, secret.Name, secret.KeyID, secret.EncryptedValue)
	})
	if err == nil {
		return nil
	}

	if resp, ok := github.ResponseError(err); ok {
		return &UploadHTTPError{
			SecretName:       secret.Name,
			StatusCode:       resp.StatusCode,
			GitHubMessage:    resp.Message,
			ValidationErrors: resp.Errors,
			Body:             resp.Body,
			Err:              ClassifyGitHubError(resp.StatusCode, err),
		}
	}

	return perrors.UploadTransport(secret.Name, err)
}

// AuthenticatedUser wraps the github client method to classify errors
func (w *githubClientWrapper) AuthenticatedUser(ctx context.Context) (string, error) {
	login, err := w.Client.AuthenticatedUser(ctx)
	if err != nil {
		return "", classify(err)
	}
	return login, nil
}

// classify turns errors carrying an HTTP status into an APIError
func classify(err error) error {
	if resp, ok := github.ResponseError(err); ok {
		return ClassifyGitHubError(resp.StatusCode, err)
	}
	return err
}

// NewClient creates the platform client for a repository. repository is
// owner/name or a GitHub remote URL.
func NewClient(repository, token string, opts ClientOptions) (Platform, error) {
	platform := detectPlatform(repository)

	switch platform {
	case "github":
		ghClient, err := github.NewClient(repository, token, github.Options{
			BaseURL:   opts.APIURL,
			Timeout:   opts.Timeout,
			Transport: NewLoggingTransport(nil, opts.Metrics),
		})
		if err != nil {
			return nil, err
		}
		return &githubClientWrapper{Client: ghClient}, nil
	default:
		return nil, fmt.Errorf("unsupported platform for %q: only GitHub repositories are supported", repository)
	}
}

// detectPlatform identifies the platform from a repository identifier.
// A bare owner/name is a GitHub repository.
func detectPlatform(repository string) string {
	switch {
	case strings.Contains(repository, "github.com"):
		return "github"
	case strings.Contains(repository, "://"), strings.HasPrefix(repository, "git@"):
		return "unknown"
	default:
		return "github"
	}
}
