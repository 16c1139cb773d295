package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/trendfeed/internal/app"
	"github.com/abdulachik/trendfeed/internal/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one pipeline cycle and exit",
	Long: `Fetch today's trending repositories, enrich them with summaries,
and publish the snapshot to the store, data.json, feed.xml and the
configured Discord webhook. Intended to be invoked by an external
scheduler such as cron or a CI workflow.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForRun(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	snap, err := a.Pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	slog.Info("pipeline run complete",
		"items", len(snap.Items),
		"generated_at", snap.GeneratedAt,
	)
	return nil
}
