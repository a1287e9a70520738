// Package http assembles the chi route tree and the HTTP server.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/internal/interfaces/http/handlers"
	"github.com/turtacn/GrayZone-Monitor/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	ViewHandler   *handlers.ViewHandler
	HealthHandler *handlers.HealthHandler

	Logger         logging.Logger
	Logging        middleware.LoggingConfig
	HTTPRecorder   middleware.HTTPRecorder
	MetricsHandler http.Handler
	// MetricsPath defaults to /metrics.
	MetricsPath string
	CORSOrigins []string
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.HTTPRecorder != nil {
		r.Use(middleware.Metrics(cfg.HTTPRecorder))
	}

	if h := cfg.HealthHandler; h != nil {
		r.Get("/healthz", h.Liveness)
		r.Get("/healthz/detail", h.Detailed)
		r.Get("/readyz", h.Readiness)
	}

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerViewRoutes(api, cfg.ViewHandler)
	})

	return r
}

func registerViewRoutes(r chi.Router, h *handlers.ViewHandler) {
	if h == nil {
		return
	}
	r.Get("/view", h.GetView)
	r.Get("/status", h.GetStatus)
	r.Post("/refresh", h.Refresh)

	r.Get("/dark-vessels", h.GetDarkVessels)
	r.Get("/suspicious", h.GetSuspicious)
	r.Get("/identity", h.GetIdentity)

	r.Route("/zones", func(zr chi.Router) {
		zr.Get("/", h.ListZones)
		zr.Get("/{zoneID}/vessels", h.ListZoneVessels)
	})
	r.Route("/vessels", func(vr chi.Router) {
		vr.Get("/", h.ListVessels)
		vr.Get("/{mmsi}", h.GetVessel)
	})
}

//Personal.AI order the ending
