package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lunahq/muse/internal/config"
	"github.com/lunahq/muse/internal/doctor"
	"github.com/lunahq/muse/internal/observability"
)

// runDoctor handles the doctor command.
func runDoctor(cmd *cobra.Command, configPath string, watch bool) error {
	out := cmd.OutOrStdout()

	snapshot, err := config.Snapshot(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	issues := config.Check(snapshot)
	if len(issues) > 0 {
		fmt.Fprintf(out, "Found %d validation issues:\n", len(issues))
		for _, issue := range issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
		return fmt.Errorf("config validation failed with %d issues", len(issues))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if warnings, err := doctor.CheckSchema(snapshot); err != nil {
		fmt.Fprintf(out, "Schema check skipped: %v\n", err)
	} else if len(warnings) > 0 {
		fmt.Fprintln(out, "Schema warnings:")
		for _, warning := range warnings {
			fmt.Fprintf(out, "  - %s\n", warning)
		}
	}

	if warnings := doctor.CheckEnvironment(cfg); len(warnings) > 0 {
		fmt.Fprintln(out, "Environment warnings:")
		for _, warning := range warnings {
			fmt.Fprintf(out, "  - %s\n", warning)
		}
	}

	fmt.Fprintln(out, "Config OK")

	if watch {
		logger := observability.NewLogger(observability.LogConfig{
			Level:  cfg.Logs.Level,
			Format: "text",
		})
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = observability.WithRequestID(ctx, uuid.NewString())

		fmt.Fprintf(out, "Watching %s for changes...\n", configPath)
		return config.Watch(ctx, configPath, logger)
	}
	return nil
}

// runConfigShow handles "config show".
func runConfigShow(cmd *cobra.Command, configPath string) error {
	snapshot, err := config.Snapshot(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	rendered, err := yaml.Marshal(config.Redacted(snapshot))
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(rendered))
	return nil
}

// runConfigSchema handles "config schema".
func runConfigSchema(cmd *cobra.Command, args []string) error {
	schema, err := config.JSONSchema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(schema))
	return nil
}
