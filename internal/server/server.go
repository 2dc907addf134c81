// Package server provides the HTTP API for the slidescan service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkrasnov/slidescan/internal/detect"
	"github.com/dkrasnov/slidescan/internal/server/api"
	"github.com/dkrasnov/slidescan/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store

	// Detect is the base detection configuration; per-request overrides are
	// applied on top of it.
	Detect detect.Config
}

// Server represents the HTTP server for the slidescan service.
type Server struct {
	config Config
	mux    *http.ServeMux
	hub    *ProgressHub
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewProgressHub(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register scan API handler if Store is configured
	if s.config.Store != nil {
		scanHandler := api.NewScanHandler(s.config.Store, s.config.Detect, s.hub)
		s.mux.Handle("/api/scans", scanHandler)
		s.mux.Handle("/api/scans/", scanHandler)
	}

	s.mux.Handle("/api/frames", api.NewFrameHandler())
	s.mux.Handle("/api/progress", s.hub)
	s.mux.Handle("/metrics", promhttp.Handler())

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
