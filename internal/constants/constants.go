package constants

import (
	"os"
	"time"
)

// Token file locations, relative to the user's home directory
const (
	PreferredTokenDir = ".gamecache"
	LegacyTokenDir    = ".mybgg"
	TokenFileName     = "token.json"
	TokenField        = "access_token"
)

// Repository configuration
const (
	DefaultConfigFile = "config.ini"
	RepoConfigKey     = "github_repo"
	RepoPlaceholder   = "YOUR_GITHUB_USERNAME/gamecache"
)

// Secret names the hourly workflow reads. Both carry the same token; the
// MYBGG_ name is kept for workflows that predate the rename.
const (
	SecretGameCacheToken = "GAMECACHE_GITHUB_TOKEN"
	SecretMyBGGToken     = "MYBGG_GITHUB_TOKEN"
)

// SecretNames returns the secrets provisioned by a run, in upload order
func SecretNames() []string {
	return []string{SecretGameCacheToken, SecretMyBGGToken}
}

// GitHub API
const DefaultAPIURL = "https://api.github.com/"

// Timeouts
const (
	DefaultAPITimeout   = 30 * time.Second
	VaultHealthTimeout  = 2 * time.Second
	SpinnerTickInterval = 100 * time.Millisecond
)

// File permissions
const (
	TokenFileMode os.FileMode = 0600
	TokenDirMode  os.FileMode = 0700
)
