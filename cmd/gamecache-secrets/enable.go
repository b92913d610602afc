package main

import (
	"github.com/spf13/cobra"

	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
	"github.com/lcgerke/gamecache-secrets/internal/provision"
	"github.com/lcgerke/gamecache-secrets/internal/remote"
	"github.com/lcgerke/gamecache-secrets/internal/sealedbox"
)

// selfTest checks sealed-box support before anything is read
var selfTest = sealedbox.SelfTest

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Create the Actions secrets that enable hourly updates",
	Long: `Create the GAMECACHE_GITHUB_TOKEN and MYBGG_GITHUB_TOKEN Actions secrets.

The token is read from ~/.gamecache/token.json, or from ~/.mybgg/token.json
in which case it is copied to the new location. The repository is read
from the github_repo key of config.ini in the current directory; use
--config when running from elsewhere.

A missing or unreadable token is an error. Any problem after that prints
the token and manual setup steps instead.`,
	Args: cobra.NoArgs,
	RunE: runEnable,
}

func runEnable(cmd *cobra.Command, args []string) error {
	out := newOutput(cmd)

	if err := selfTest(); err != nil {
		return perrors.MissingCryptoLibrary(err)
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	p, err := provision.New(opts, out)
	if err != nil {
		return err
	}

	out.Header("Enabling GameCache hourly updates")
	result, err := p.Run(cmd.Context())
	if verbose {
		out.Info(opts.Metrics.Report())
	}
	if err != nil {
		return err
	}

	if result.Fallback {
		remote.Debugf("manual setup required: %v", result.FallbackReason)
	}
	return nil
}
