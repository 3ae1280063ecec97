package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"medication-tracker/internal/app"
	"medication-tracker/internal/platform/config"
	"medication-tracker/internal/platform/logger"
)

var (
	driver string
	dbPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaultDriver := os.Getenv("STORE_DRIVER")
	if defaultDriver == "" {
		defaultDriver = "sqlite"
	}
	defaultDB := os.Getenv("SQLITE_PATH")
	if defaultDB == "" {
		home, _ := os.UserHomeDir()
		defaultDB = filepath.Join(home, ".medtracker", "medtracker.db")
	}

	rootCmd := &cobra.Command{
		Use:          "medtracker",
		Short:        "Medication schedule tracker",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&driver, "driver", defaultDriver, "store driver: memory|sqlite|postgres|s3")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "sqlite database path")

	rootCmd.AddCommand(plansCmd())
	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(takeCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// getApp abre el store elegido por flags y carga el snapshot.
func getApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.StoreDriver = driver
	cfg.SQLitePath = dbPath

	level := logger.Warn
	if os.Getenv("LOG_LEVEL") != "" {
		level = logger.ParseLevel(cfg.LogLevel)
	}
	log := logger.New(logger.Options{
		Level:  level,
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Output: os.Stderr,
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open tracker: %w", err)
	}
	return a, nil
}
