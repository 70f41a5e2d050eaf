package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.opentelemetry.io/otel/attribute"

	"kioskd/internal/database"
	"kioskd/internal/logging"
	"kioskd/internal/store"
	"kioskd/internal/system"
	"kioskd/internal/telemetry"
)

// CreateKioskVersionRequest is the request body for POST /kiosk-version
type CreateKioskVersionRequest struct {
	Version string `json:"version"`
	Notes   string `json:"notes"`
}

// kioskVersionError is the wire shape of domain-specific errors, kept
// compatible with existing publisher tooling
type kioskVersionError struct {
	Code string      `json:"code"`
	Data interface{} `json:"data"`
}

type kioskVersionErrorResponse struct {
	KioskVersionError kioskVersionError `json:"kiosk_version_error"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "OK") //nolint:errcheck // Best effort
}

// handleLatestVersion handles GET /latest-version. It resolves the newest
// complete version on disk and returns its manifest; when nothing is
// complete the well-defined empty manifest is returned with status 200.
func (s *Server) handleLatestVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, span := telemetry.StartSpan(r.Context(), "manifest.resolve_latest")
	defer span.End()

	m, err := s.resolver.ResolveLatest()
	if err != nil {
		logging.Error("Failed to resolve latest version: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.String("kiosk.version", m.Version))

	// notes.txt is written at publish time; the resolver itself only
	// carries a placeholder
	if m.Version != "" {
		if notes, ok := s.store.Notes(m.Version); ok {
			m.Notes = notes
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m); err != nil {
		logging.Error("Failed to encode manifest: %v", err)
	}
}

// handleDownload handles GET /download/{version}/{platform}/{filename} and
// streams the artifact without buffering it in memory.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/download/"), "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}
	version, platform, filename := parts[0], parts[1], parts[2]

	_, span := telemetry.StartSpan(r.Context(), "download.stream")
	defer span.End()
	span.SetAttributes(
		attribute.String("kiosk.version", version),
		attribute.String("kiosk.platform", platform),
	)

	path, err := s.store.PayloadPath(version, platform, filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logging.Error("Failed to resolve download path: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		logging.Error("Failed to open file %s: %v", path, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer file.Close() //nolint:errcheck // Read-only handle

	info, err := file.Stat()
	if err != nil {
		logging.Error("Failed to stat file %s: %v", path, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))

	if _, err := io.Copy(w, file); err != nil {
		// Headers are already out; the client has to re-request
		logging.Error("Failed to stream file %s: %v", path, err)
		return
	}

	if database.GetDB() != nil {
		if err := database.RecordDownloadEvent(version, platform, filename, r.RemoteAddr); err != nil {
			logging.Warning("Failed to record download event: %v", err)
		}
	}
}

// handleCreateVersion handles POST /kiosk-version. It scaffolds the
// on-disk folder structure for a newly published version.
func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CreateKioskVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	defer r.Body.Close() //nolint:errcheck // Cleanup, error not critical

	if req.Version == "" {
		http.Error(w, "Version is required", http.StatusBadRequest)
		return
	}
	// A non-semver folder name would never be discovered by the catalog,
	// so reject it up front instead of creating a dead folder
	if _, err := semver.StrictNewVersion(req.Version); err != nil {
		http.Error(w, "Version must be a valid semantic version", http.StatusBadRequest)
		return
	}

	if err := s.store.CreateVersion(req.Version, req.Notes); err != nil {
		if errors.Is(err, store.ErrVersionExists) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			resp := kioskVersionErrorResponse{
				KioskVersionError: kioskVersionError{Code: "FolderExist", Data: nil},
			}
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				logging.Error("Failed to encode error response: %v", err)
			}
			return
		}
		logging.Error("Failed to create version %s: %v", req.Version, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logging.Info("Created version folder skeleton for %s", req.Version)
	w.WriteHeader(http.StatusOK)
}

// handleSystemVitals handles GET /api/system-vitals
func (s *Server) handleSystemVitals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vitals, err := system.GetVitals(s.config.KioskDir)
	if err != nil {
		logging.Error("Failed to collect system vitals: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"current": vitals,
	}
	if database.GetDB() != nil {
		if history, err := database.GetVitalsLast24Hours(); err == nil {
			response["history"] = history
		} else {
			logging.Warning("Failed to load vitals history: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Error("Failed to encode vitals: %v", err)
	}
}

// handleDownloadStats handles GET /api/download-stats
func (s *Server) handleDownloadStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if database.GetDB() == nil {
		http.Error(w, "Statistics not available", http.StatusServiceUnavailable)
		return
	}

	counts, err := database.GetDownloadCounts()
	if err != nil {
		logging.Error("Failed to load download stats: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"downloads": counts}); err != nil {
		logging.Error("Failed to encode download stats: %v", err)
	}
}
