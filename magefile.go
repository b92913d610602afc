//go:build mage
// +build mage

package main

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName   = "gamecache-secrets"
	cmdDir       = "./cmd/gamecache-secrets"
	coverProfile = "coverage.out"
)

// Default target to run when none is specified
var Default = Build

// Build compiles gamecache-secrets into the repository root
func Build() error {
	mg.Deps(Deps)
	fmt.Println("Building", binaryName, "...")

	if err := sh.Run("go", "build", "-o", binaryName, cmdDir); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Println("Build complete:", filepath.Join(".", binaryName))
	return nil
}

// Install runs go install for the command
func Install() error {
	mg.Deps(Deps)
	fmt.Println("Installing", binaryName, "...")
	return sh.Run("go", "install", cmdDir)
}

// Clean removes the binary and coverage profile
func Clean() error {
	for _, artifact := range []string{binaryName, coverProfile} {
		if err := sh.Rm(artifact); err != nil {
			fmt.Printf("Warning: could not remove %s: %v\n", artifact, err)
		}
	}
	return nil
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the unit tests with the race detector
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover writes a coverage profile and prints the per-function summary
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverProfile)
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint when it is installed
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println("golangci-lint not found in PATH, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Deps downloads module dependencies
func Deps() error {
	return sh.Run("go", "mod", "download")
}

// CI runs vet, lint and the race-enabled tests in order
func CI() error {
	mg.SerialDeps(Deps, Vet, Lint, Race)
	return nil
}
