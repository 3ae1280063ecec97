package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medication-tracker/internal/app"
	"medication-tracker/internal/platform/config"
	"medication-tracker/internal/platform/logger"
)

// @title Medication Tracker API
// @version 1.0
// @description Planes de tratamiento, dosis generadas y seguimiento diario de tomas.
// @BasePath /
func main() {
	if err := run(); err != nil {
		logger.NewFromEnv().Error("api exited", map[string]any{"err": err})
		os.Exit(1)
	}
}

// run arranca la API y bloquea hasta una señal o un error del server.
// Los defers corren siempre antes de que main decida el exit code.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", map[string]any{"err": err})
		return fmt.Errorf("startup: %w", err)
	}
	defer func() { _ = a.Close() }()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.Router(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "store": cfg.StoreDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"err": err})
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", map[string]any{"err": err})
	}
	log.Info("server stopped", nil)
	return nil
}
