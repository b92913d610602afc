package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lcgerke/gamecache-secrets/internal/constants"
)

// resetFlags restores the global flag values between command runs
func resetFlags() {
	noColor = false
	quiet = false
	verbose = false
	apiURL = constants.DefaultAPIURL
	timeout = constants.DefaultAPITimeout
	configPath = constants.DefaultConfigFile
	vaultPath = ""
	ghConfig = false
}

// executeCommand runs the root command with args and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// setupHome points HOME at a temp dir, optionally holding a token file
func setupHome(t *testing.T, tokenJSON string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	if tokenJSON != "" {
		dir := filepath.Join(home, constants.PreferredTokenDir)
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, constants.TokenFileName), []byte(tokenJSON), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return home
}

// writeConfig writes a config.ini and returns its path
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), constants.DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
