package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdulachik/trendfeed/internal/app"
	"github.com/abdulachik/trendfeed/internal/config"
	"github.com/abdulachik/trendfeed/internal/scheduler"
	"github.com/abdulachik/trendfeed/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the digest daemon",
	Long: `Run the trendfeed daemon: the pipeline executes on a fixed schedule
and the latest snapshot is served over HTTP as data.json and feed.xml.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	sched, err := scheduler.New(scheduler.Config{
		Runner:   a.Pipeline,
		Interval: cfg.RunInterval,
	})
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	srv := server.New(server.Config{
		Addr:    cfg.ListenAddr,
		Source:  a.Store,
		Health:  sched.Health(),
		SiteURL: cfg.SiteURL,
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		sched.Stop()
		return fmt.Errorf("HTTP server error: %w", err)
	}

	if err := sched.Stop(); err != nil {
		slog.Warn("failed to stop scheduler", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	slog.Info("shutdown complete")
	return nil
}
