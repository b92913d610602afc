package vault

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"
	"github.com/lcgerke/gamecache-secrets/internal/constants"
)

// DefaultMount is the KVv2 mount token secrets are read from
const DefaultMount = "secret"

// Client wraps the Vault API client
type Client struct {
	client *vault.Client
	mount  string
}

// NewClient creates a new Vault client
// It uses environment variables for configuration:
// - VAULT_ADDR: Vault server address
// - VAULT_TOKEN: Authentication token
func NewClient() (*Client, error) {
	config := vault.DefaultConfig()
	if config == nil {
		return nil, fmt.Errorf("failed to create default vault config")
	}
	if config.Error != nil {
		return nil, fmt.Errorf("failed to read vault environment: %w", config.Error)
	}

	return NewClientWithConfig(config)
}

// NewClientWithConfig creates a Vault client from an explicit config
func NewClientWithConfig(config *vault.Config) (*Client, error) {
	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	return &Client{
		client: client,
		mount:  DefaultMount,
	}, nil
}

// GetSecret retrieves a secret from Vault
func (c *Client) GetSecret(ctx context.Context, path string) (map[string]interface{}, error) {
	secret, err := c.client.KVv2(c.mount).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret at %s: %w", path, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("no data found at %s", path)
	}

	return secret.Data, nil
}

// IsReachable checks if Vault server is reachable
func (c *Client) IsReachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, constants.VaultHealthTimeout)
	defer cancel()

	_, err := c.client.Sys().HealthWithContext(ctx)
	return err == nil
}

// GetToken retrieves a GitHub token stored at path. The secret may hold it
// under access_token (the token.json layout) or token.
func (c *Client) GetToken(ctx context.Context, path string) (string, error) {
	data, err := c.GetSecret(ctx, path)
	if err != nil {
		return "", err
	}

	for _, field := range []string{constants.TokenField, "token"} {
		if token, ok := data[field].(string); ok && token != "" {
			return token, nil
		}
	}

	return "", fmt.Errorf("secret at %s has no %s or token field", path, constants.TokenField)
}
