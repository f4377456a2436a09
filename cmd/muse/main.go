// Package main provides the CLI entry point for muse, an AI chat companion.
//
// The CLI centers on configuration hygiene: muse refuses to start with a
// config that fails validation, and the doctor command reports every
// violation in one pass so a broken file can be fixed in one edit.
//
// # Basic Usage
//
// Validate a configuration file:
//
//	muse doctor --config muse.yaml
//
// Keep validating as the file is edited:
//
//	muse doctor --config muse.yaml --watch
//
// Inspect the effective configuration with secrets redacted:
//
//	muse config show --config muse.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information - populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "muse",
		Short:        "Muse - AI chat companion",
		Long:         "Muse is an AI chat companion with optional image generation.\n\nThe CLI validates and inspects the muse configuration file.",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildDoctorCmd(),
		buildConfigCmd(),
	)

	return rootCmd
}
