package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gamecache-secrets/internal/credential"
	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
	"github.com/lcgerke/gamecache-secrets/internal/provision"
	"github.com/lcgerke/gamecache-secrets/internal/remote"
	"github.com/lcgerke/gamecache-secrets/internal/ui"
	"github.com/lcgerke/gamecache-secrets/internal/vault"
)

// newOutput creates the console output for cmd honoring the global flags
func newOutput(cmd *cobra.Command) *ui.Output {
	out := ui.NewOutput(cmd.OutOrStdout())
	if noColor {
		out.SetColorEnabled(false)
	}
	out.SetQuiet(quiet)
	return out
}

// buildOptions gathers the global flags into provisioner options
func buildOptions() (provision.Options, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return provision.Options{}, perrors.InvalidConfiguration("home", err.Error())
	}

	var extra []credential.Source
	if vaultPath != "" {
		client, err := vault.NewClient()
		if err != nil {
			return provision.Options{}, perrors.InvalidConfiguration("vault-path", err.Error())
		}
		extra = append(extra, credential.NewVaultSource(client, vaultPath))
	}
	if ghConfig {
		extra = append(extra, credential.NewGhConfigSource(home, ""))
	}

	return provision.Options{
		Home:         home,
		ConfigPath:   configPath,
		APIURL:       apiURL,
		Timeout:      timeout,
		ExtraSources: extra,
		Metrics:      remote.NewMetricsCollector(),
	}, nil
}
