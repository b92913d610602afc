package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gamecache-secrets/internal/provision"
)

var errChecksFailed = errors.New("one or more checks failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the token, repository and GitHub access without writing secrets",
	Long: `Diagnose the hourly update setup.

This command checks:
  - sealed-box encryption works
  - a GitHub token can be found
  - config.ini names a repository
  - GitHub accepts the token
  - the repository public key can be fetched

Nothing is written, and a legacy token is not migrated.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := newOutput(cmd)

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	p, err := provision.New(opts, out)
	if err != nil {
		return err
	}

	out.Header("Checking GameCache hourly update setup")
	out.Separator()

	report := p.Check(cmd.Context())
	for _, c := range report.Checks {
		if c.OK {
			out.Successf("%-15s %s", c.Name, c.Detail)
		} else {
			out.Errorf("%-15s %s", c.Name, c.Detail)
		}
	}

	out.Separator()
	if verbose {
		out.Info(opts.Metrics.Report())
	}

	if !report.OK() {
		return errChecksFailed
	}
	out.Success("Setup looks good. Run 'gamecache-secrets enable' to create the secrets.")
	return nil
}
