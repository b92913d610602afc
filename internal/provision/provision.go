// Package provision enables the hourly update workflow of a GameCache
// repository by writing the GitHub token into its Actions secrets. When the
// secrets cannot be written it prints the steps to add them by hand.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lcgerke/gamecache-secrets/internal/config"
	"github.com/lcgerke/gamecache-secrets/internal/constants"
	"github.com/lcgerke/gamecache-secrets/internal/credential"
	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
	"github.com/lcgerke/gamecache-secrets/internal/remote"
	"github.com/lcgerke/gamecache-secrets/internal/sealedbox"
	"github.com/lcgerke/gamecache-secrets/internal/ui"
)

// PlatformFactory creates the API client for a repository
type PlatformFactory func(repository, token string, opts remote.ClientOptions) (remote.Platform, error)

// Options configures a Provisioner
type Options struct {
	// Home is the directory holding .gamecache and .mybgg
	Home string
	// ConfigPath is the config.ini holding github_repo
	ConfigPath string
	// APIURL overrides the GitHub API root
	APIURL  string
	Timeout time.Duration
	// SecretNames defaults to constants.SecretNames()
	SecretNames []string
	// ExtraSources are tried after the token files
	ExtraSources []credential.Source
	Metrics      *remote.MetricsCollector
	NewPlatform  PlatformFactory
}

// Result describes a completed run
type Result struct {
	Repository string
	// Created lists the secrets written, in upload order
	Created []string
	// Migrated is the path the legacy token was copied to, if any
	Migrated string
	// Fallback is set when manual instructions were printed instead
	Fallback       bool
	FallbackReason error
}

// Provisioner runs the secret provisioning flow
type Provisioner struct {
	opts     Options
	out      *ui.Output
	resolver *credential.Resolver
	repo     *config.RepoConfig
}

// New validates opts and creates a Provisioner writing to out
func New(opts Options, out *ui.Output) (*Provisioner, error) {
	if opts.Home == "" {
		return nil, perrors.InvalidConfiguration("home", "home directory is not set")
	}
	if opts.Timeout == 0 {
		opts.Timeout = constants.DefaultAPITimeout
	}
	if opts.Timeout < 0 {
		return nil, perrors.InvalidConfiguration("timeout", "must be positive")
	}
	if len(opts.SecretNames) == 0 {
		opts.SecretNames = constants.SecretNames()
	}
	if opts.NewPlatform == nil {
		opts.NewPlatform = remote.NewClient
	}

	return &Provisioner{
		opts:     opts,
		out:      out,
		resolver: credential.NewDefaultResolver(opts.Home, opts.ExtraSources...),
		repo:     config.NewRepoConfig(opts.ConfigPath),
	}, nil
}

// Run provisions every secret. Only credential errors are returned; any
// failure after the token is known ends in the manual instructions and a
// nil error.
func (p *Provisioner) Run(ctx context.Context) (*Result, error) {
	tok, err := p.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	p.out.Successf("Found GitHub token (%s)", tok.Source)

	result := &Result{}
	result.Migrated = p.migrate(tok)

	repo, err := p.repo.Repository()
	if err != nil {
		remote.Debugf("repository lookup failed: %v", err)
		p.out.Warningf("Could not determine repository from %s", p.repo.Path())
		p.fallback(result, tok.AccessToken, err)
		return result, nil
	}
	result.Repository = repo
	p.out.Successf("Found repository: %s", repo)
	p.out.Infof("\nCreating GitHub secrets %s in %s...", quoteNames(p.opts.SecretNames), repo)

	platform, err := p.opts.NewPlatform(repo, tok.AccessToken, remote.ClientOptions{
		APIURL:  p.opts.APIURL,
		Timeout: p.opts.Timeout,
		Metrics: p.opts.Metrics,
	})
	if err != nil {
		p.out.Errorf("Failed to create GitHub client: %v", err)
		p.out.Info("\nFalling back to manual setup...")
		p.fallback(result, tok.AccessToken, err)
		return result, nil
	}

	for _, name := range p.opts.SecretNames {
		if err := p.provisionSecret(ctx, platform, repo, name, tok.AccessToken); err != nil {
			p.reportFailure(err)
			p.out.Info("\nFalling back to manual setup...")
			p.fallback(result, tok.AccessToken, err)
			return result, nil
		}
		result.Created = append(result.Created, name)
	}

	p.out.Successf("Successfully created GitHub secrets: %s", strings.Join(result.Created, ", "))
	p.out.Header("Hourly updates are now enabled!")
	p.out.Info("Your board game collection will be automatically updated every hour.")
	p.out.Info("You can test it by going to the Actions tab in your repository.")

	return result, nil
}

// migrate copies a legacy token to the preferred path. Failure only warns.
func (p *Provisioner) migrate(tok *credential.Token) string {
	if !p.resolver.NeedsMigration(tok) {
		return ""
	}

	path, err := p.resolver.Migrate(tok)
	if err != nil {
		p.out.Warningf("Could not migrate token from %s: %v", tok.Path, err)
		return ""
	}

	p.out.Successf("Migrated token to %s", path)
	return path
}

// provisionSecret fetches a fresh public key, seals the token against it
// and uploads it under name
func (p *Provisioner) provisionSecret(ctx context.Context, platform remote.Platform, repo, name, token string) error {
	stop := p.out.Spin(fmt.Sprintf("Getting public key for %s...", repo))
	key, err := platform.GetPublicKey(ctx)
	stop()
	if err != nil {
		return err
	}
	p.out.Successf("Got public key (key_id: %s)", key.KeyID)

	encrypted, err := sealedbox.Encrypt(key.Key, token)
	if err != nil {
		return perrors.RemoteKeyFetch(repo, err)
	}
	p.out.Success("Secret encrypted successfully")

	stop = p.out.Spin(fmt.Sprintf("Uploading %s...", name))
	err = platform.PutSecret(ctx, &remote.EncryptedSecret{
		Name:           name,
		KeyID:          key.KeyID,
		EncryptedValue: encrypted,
	})
	stop()
	if err != nil {
		return err
	}

	p.out.Successf("Secret %s created/updated successfully", name)
	return nil
}

func (p *Provisioner) reportFailure(err error) {
	defer func() {
		if hint := failureHint(err); hint != "" {
			p.out.Detail("Suggestion: " + hint)
		}
	}()

	var httpErr *remote.UploadHTTPError
	if errors.As(err, &httpErr) {
		lines := httpErr.Details()
		p.out.Errorf("Failed to create GitHub secret %s: %s", httpErr.SecretName, lines[0])
		for _, line := range lines[1:] {
			p.out.Detail(line)
		}
		return
	}

	var pe *perrors.ProvisionError
	if errors.As(err, &pe) {
		p.out.Error(pe.Message)
		if pe.Err != nil {
			p.out.Detailf("%v", pe.Err)
		}
		return
	}

	p.out.Errorf("Failed to create GitHub secret: %v", err)
}

// failureHint picks a suggestion from the HTTP status behind err
func failureHint(err error) string {
	switch {
	case remote.IsAuthError(err):
		return "GitHub rejected the token. Run the download script again to re-authenticate."
	case remote.IsPermissionError(err):
		return "The token cannot manage secrets on this repository. It needs the repo scope and admin access."
	case remote.IsNotFound(err):
		return "Repository not found. Check github_repo in config.ini and that the token can see the repository."
	}

	var pe *perrors.ProvisionError
	if errors.As(err, &pe) {
		return pe.Hint
	}
	return ""
}

func (p *Provisioner) fallback(result *Result, token string, reason error) {
	result.Fallback = true
	result.FallbackReason = reason
	p.out.Block(ManualInstructions(token, p.opts.SecretNames)...)
}

// ManualInstructions returns the steps for adding the secrets by hand. The
// token is printed verbatim.
func ManualInstructions(token string, secretNames []string) []string {
	lines := []string{
		"",
		"Token: " + token,
		"",
		"Manual setup steps:",
		"1. Copy the token above",
		"2. Go to your GitHub repository settings",
		"3. Navigate to Settings > Secrets and variables > Actions",
		"4. Click 'New repository secret'",
		"5. Create each of these:",
	}
	for _, name := range secretNames {
		lines = append(lines, fmt.Sprintf("   - %s = <paste token>", name))
	}
	return append(lines, "6. Click 'Add secret'")
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, " and ")
}
