// Package server exposes the dashboard over HTTP: an HTML page for people and
// a small JSON API for scripts.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/opyta/sistema-financeiro/internal/dashboard"
	"github.com/opyta/sistema-financeiro/internal/finance"
	"github.com/opyta/sistema-financeiro/internal/service"
	"github.com/opyta/sistema-financeiro/internal/upsert"
)

// Dashboard is the part of *dashboard.Dashboard the handlers use.
type Dashboard interface {
	Build(ctx context.Context, f finance.Filter) (dashboard.View, error)
	Options(ctx context.Context, client string) (dashboard.Options, error)
	SyncTaxes(ctx context.Context, f finance.Filter, progress service.ProgressFunc) (upsert.Result, error)
	Invalidate()
}

type handler struct {
	dash    Dashboard
	logger  *slog.Logger
	pages   *pages
	version string
}

// NewHandler builds the router serving the dashboard page and API.
func NewHandler(dash Dashboard, logger *slog.Logger, version string) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "dev"
	}

	h := &handler{
		dash:    dash,
		logger:  logger,
		pages:   mustParsePages(),
		version: version,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.handleIndex)
	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/options", h.handleOptions)
		r.Post("/taxes/sync", h.handleSyncTaxes)
		r.Post("/cache/invalidate", h.handleInvalidate)
		r.Get("/version", h.handleVersion)
	})

	return r
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response", "error", err)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		"op", op,
		"status", status,
		"error", msg)

	h.writeJSON(w, status, map[string]string{"error": msg})
}
