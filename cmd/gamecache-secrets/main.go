package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gamecache-secrets/internal/constants"
	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
	"github.com/lcgerke/gamecache-secrets/internal/remote"
	"github.com/lcgerke/gamecache-secrets/internal/ui"
)

var (
	// Global flags
	noColor    bool
	quiet      bool
	verbose    bool
	apiURL     string
	timeout    time.Duration
	configPath string
	vaultPath  string
	ghConfig   bool

	// Root command
	rootCmd = &cobra.Command{
		Use:   "gamecache-secrets",
		Short: "Enable hourly GameCache updates by storing your GitHub token as Actions secrets",
		Long: `gamecache-secrets reads the GitHub token saved by the GameCache download
script and stores it, sealed with the repository public key, as the
GAMECACHE_GITHUB_TOKEN and MYBGG_GITHUB_TOKEN Actions secrets of the
repository named in config.ini.

If the secrets cannot be created it prints the token and the steps to
add them by hand.

Running without a subcommand is the same as 'gamecache-secrets enable'.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				remote.SetLogOutput(cmd.ErrOrStderr())
				remote.EnableLogging(true)
			}
		},
		RunE: runEnable,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log API calls and print call metrics")
	flags.StringVar(&apiURL, "api-url", constants.DefaultAPIURL, "GitHub API root URL")
	flags.DurationVar(&timeout, "timeout", constants.DefaultAPITimeout, "Timeout for each GitHub API request")
	flags.StringVarP(&configPath, "config", "c", constants.DefaultConfigFile, "Path to config.ini holding github_repo")
	flags.StringVar(&vaultPath, "vault-path", "", "Also look for the token in this Vault KV path (uses VAULT_ADDR and VAULT_TOKEN)")
	flags.BoolVar(&ghConfig, "gh-config", false, "Also look for the token in the GitHub CLI hosts.yml")

	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err and returns the exit status. Fatal provisioning
// errors are shown with their suggestion.
func reportError(w io.Writer, err error) int {
	out := ui.NewOutput(w)
	if noColor {
		out.SetColorEnabled(false)
	}

	var pe *perrors.ProvisionError
	if perrors.IsFatal(err) && errors.As(err, &pe) {
		out.Error(pe.UserFriendlyMessage())
	} else {
		out.Errorf("Error: %v", err)
	}
	return 1
}
