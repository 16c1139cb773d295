package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/abdulachik/trendfeed/internal/publisher"
	"github.com/abdulachik/trendfeed/internal/scheduler"
	"github.com/abdulachik/trendfeed/internal/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SnapshotSource reads the latest published snapshot.
type SnapshotSource interface {
	Latest(ctx context.Context) (*snapshot.Snapshot, error)
}

// Server serves the last published snapshot over HTTP.
type Server struct {
	*http.Server
}

// Config holds server configuration.
type Config struct {
	Addr    string
	Source  SnapshotSource
	Health  *scheduler.Health
	SiteURL string
}

// New creates the HTTP server and its routes.
func New(cfg Config) *Server {
	h := &handler{
		source:  cfg.Source,
		health:  cfg.Health,
		siteURL: cfg.SiteURL,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/health", h.handleHealth)
	router.Get("/data.json", h.handleData)
	router.Get("/feed.xml", h.handleFeed)

	return &Server{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}
}

type handler struct {
	source  SnapshotSource
	health  *scheduler.Health
	siteURL string
}

// handleHealth reports the scheduler's component statuses.
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if h.health != nil && !h.health.IsOverallHealthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	var components map[string]scheduler.HealthStatus
	if h.health != nil {
		components = h.health.Statuses()
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": components,
	})
}

// handleData serves the latest snapshot in its canonical JSON form.
func (h *handler) handleData(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.latest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := snap.Encode(w); err != nil {
		slog.Error("failed to write snapshot response", "error", err)
	}
}

// handleFeed builds the RSS document on demand from the latest snapshot.
func (h *handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.latest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := publisher.EncodeRSS(w, publisher.BuildRSS(snap, h.siteURL)); err != nil {
		slog.Error("failed to write feed response", "error", err)
	}
}

// latest loads the stored snapshot, answering 503 when none has ever been
// published. Readers only ever see a complete snapshot or "no data yet".
func (h *handler) latest(w http.ResponseWriter, r *http.Request) (*snapshot.Snapshot, bool) {
	snap, err := h.source.Latest(r.Context())
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load snapshot"})
		return nil, false
	}

	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no snapshot published yet"})
		return nil, false
	}

	return snap, true
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
