// Package server implements the HTTP interface of the kiosk update server.
package server

import (
	"net/http"

	"kioskd/internal/config"
	"kioskd/internal/manifest"
	"kioskd/internal/store"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	store    *store.Store
	resolver *manifest.Resolver
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config:   cfg,
		store:    store.New(cfg.KioskDir),
		resolver: manifest.NewResolver(cfg.KioskDir, cfg.DownloadBaseURL),
	}
}

// Routes builds the request multiplexer with all handlers attached.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.requestLogMiddleware(s.handleHealth))
	mux.HandleFunc("/latest-version", s.requestLogMiddleware(s.handleLatestVersion))
	mux.HandleFunc("/download/", s.requestLogMiddleware(s.handleDownload))
	mux.HandleFunc("/kiosk-version", s.requestLogMiddleware(s.handleCreateVersion))

	// Operational endpoints
	mux.HandleFunc("/api/system-vitals", s.requestLogMiddleware(s.handleSystemVitals))
	mux.HandleFunc("/api/download-stats", s.requestLogMiddleware(s.handleDownloadStats))

	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	return http.ListenAndServe(s.config.ListenAddr, s.Routes())
}
