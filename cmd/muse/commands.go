package main

import (
	"github.com/spf13/cobra"
)

// defaultConfigPath is where muse looks for its config when no flag is given.
const defaultConfigPath = "muse.yaml"

// buildDoctorCmd creates the "doctor" command for config validation.
func buildDoctorCmd() *cobra.Command {
	var configPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the configuration and report every violation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, configPath, watch)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath,
		"Path to the configuration file (yaml or json5)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep validating as the file changes")

	return cmd
}

// buildConfigCmd creates the "config" command group.
func buildConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(buildConfigShowCmd(), buildConfigSchemaCmd())
	return cmd
}

func buildConfigShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath,
		"Path to the configuration file (yaml or json5)")

	return cmd
}

func buildConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for the configuration file",
		RunE:  runConfigSchema,
	}
}
