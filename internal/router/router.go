package router

import (
	"net/http"

	"medication-tracker/internal/adapters/medinfo/stub"
	mem "medication-tracker/internal/adapters/storage/memory"
	"medication-tracker/internal/domain/tracker"
	"medication-tracker/internal/middleware"
	"medication-tracker/internal/platform/logger"
	"medication-tracker/internal/ports/medinfo"

	_ "medication-tracker/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si es nil se arma un tracker en memoria.
	Tracker *tracker.Service

	// Opcional: si es nil se usa el stub sin retardo.
	Info medinfo.Lookup

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svc := opts.Tracker
	if svc == nil {
		svc = tracker.NewService(mem.NewPlanRepo(), mem.NewDoseRepo(), mem.NewSnapshotStore(), log)
	}
	info := opts.Info
	if info == nil {
		info = stub.New(0)
	}

	tracker.RegisterRoutes(r, svc, info)

	return r
}
