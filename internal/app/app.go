// Package app arma las dependencias comunes de la API y del CLI.
package app

import (
	"context"
	"fmt"
	"net/http"

	"medication-tracker/internal/adapters/medinfo/remote"
	"medication-tracker/internal/adapters/medinfo/stub"
	"medication-tracker/internal/adapters/storage"
	mem "medication-tracker/internal/adapters/storage/memory"
	"medication-tracker/internal/domain/tracker"
	"medication-tracker/internal/platform/config"
	"medication-tracker/internal/platform/logger"
	"medication-tracker/internal/ports/medinfo"
	"medication-tracker/internal/router"
)

type App struct {
	Config  config.Config
	Log     logger.Logger
	Tracker *tracker.Service
	Info    medinfo.Lookup

	closeStore func() error
}

// New abre el store, carga el snapshot y deja el tracker listo.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}

	store, closeStore, err := storage.Open(ctx, storage.OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := tracker.NewService(mem.NewPlanRepo(), mem.NewDoseRepo(), store, log)
	if err := svc.Load(ctx); err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	info, err := NewInfoLookup(cfg)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	log.Info("app ready", map[string]any{"store": cfg.StoreDriver})
	return &App{
		Config:     cfg,
		Log:        log,
		Tracker:    svc,
		Info:       info,
		closeStore: closeStore,
	}, nil
}

// NewInfoLookup usa el proveedor remoto si hay MEDINFO_BASE_URL, si no el stub.
func NewInfoLookup(cfg config.Config) (medinfo.Lookup, error) {
	if cfg.MedInfoBaseURL == "" {
		return stub.New(cfg.MedInfoStubDelay), nil
	}
	c, err := remote.NewClient(remote.Config{
		BaseURL: cfg.MedInfoBaseURL,
		APIKey:  cfg.MedInfoAPIKey,
		Timeout: cfg.MedInfoTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("medinfo: %w", err)
	}
	return c, nil
}

func (a *App) Router() http.Handler {
	return router.NewRouter(router.Options{
		Tracker: a.Tracker,
		Info:    a.Info,
		Logger:  a.Log,
	})
}

func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}
