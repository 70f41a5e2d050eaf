package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"kioskd/internal/config"
	"kioskd/internal/manifest"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	kioskDir := t.TempDir()
	cfg := &config.Config{
		KioskDir:        kioskDir,
		DownloadBaseURL: "https://updates.example.com",
		ListenAddr:      ":0",
	}
	return New(cfg), kioskDir
}

// publishVersion lays out a complete version folder directly on disk.
func publishVersion(t *testing.T, kioskDir, version string) {
	t.Helper()
	for _, p := range manifest.RequiredPlatforms {
		dir := filepath.Join(kioskDir, version, p.ID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "kiosk.sig"), []byte("signature"), 0644); err != nil {
			t.Fatalf("Failed to write signature: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "kiosk.bin"), []byte("payload-bytes"), 0644); err != nil {
			t.Fatalf("Failed to write payload: %v", err)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %q, want %q", rec.Body.String(), "OK")
	}
}

func TestHandleLatestVersion(t *testing.T) {
	s, kioskDir := newTestServer(t)
	publishVersion(t, kioskDir, "1.0.0")

	// Incomplete newer version must not win
	partial := filepath.Join(kioskDir, "1.1.0", "linux_x86_64")
	if err := os.MkdirAll(partial, 0755); err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(partial, "kiosk.sig"), []byte("sig"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/latest-version", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var m manifest.Manifest
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if m.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", m.Version, "1.0.0")
	}
	entry, ok := m.Platforms["linux-x86_64"]
	if !ok {
		t.Fatalf("Platforms missing hyphenated key, got %v", m.Platforms)
	}
	wantURL := "https://updates.example.com/download/1.0.0/linux_x86_64/kiosk.bin"
	if entry.URL != wantURL {
		t.Errorf("URL = %q, want %q", entry.URL, wantURL)
	}
	if entry.Signature != "signature" {
		t.Errorf("Signature = %q, want %q", entry.Signature, "signature")
	}
}

func TestHandleLatestVersionEmptySentinel(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/latest-version", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}

	var m manifest.Manifest
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if m.Version != "" {
		t.Errorf("Version = %q, want empty sentinel", m.Version)
	}
	if m.PubDate != "1970-01-01T00:00:00+00:00" {
		t.Errorf("PubDate = %q, want epoch sentinel", m.PubDate)
	}
	if len(m.Platforms) != len(manifest.RequiredPlatforms) {
		t.Errorf("Platforms has %d entries, want %d", len(m.Platforms), len(manifest.RequiredPlatforms))
	}
}

func TestHandleLatestVersionNotesOverlay(t *testing.T) {
	s, kioskDir := newTestServer(t)
	publishVersion(t, kioskDir, "1.0.0")
	notesPath := filepath.Join(kioskDir, "1.0.0", "notes.txt")
	if err := os.WriteFile(notesPath, []byte("stability fixes"), 0644); err != nil {
		t.Fatalf("Failed to write notes: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/latest-version", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	var m manifest.Manifest
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if m.Notes != "stability fixes" {
		t.Errorf("Notes = %q, want %q", m.Notes, "stability fixes")
	}
}

func TestHandleCreateVersion(t *testing.T) {
	s, kioskDir := newTestServer(t)

	body, _ := json.Marshal(CreateKioskVersionRequest{Version: "2.0.0", Notes: "big release"})
	req := httptest.NewRequest(http.MethodPost, "/kiosk-version", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	for _, p := range manifest.RequiredPlatforms {
		if _, err := os.Stat(filepath.Join(kioskDir, "2.0.0", p.ID)); err != nil {
			t.Errorf("Platform folder %s not created: %v", p.ID, err)
		}
	}
	notes, err := os.ReadFile(filepath.Join(kioskDir, "2.0.0", "notes.txt"))
	if err != nil {
		t.Fatalf("notes.txt not written: %v", err)
	}
	if string(notes) != "big release" {
		t.Errorf("notes.txt = %q, want %q", notes, "big release")
	}
}

func TestHandleCreateVersionDuplicate(t *testing.T) {
	s, _ := newTestServer(t)

	body, _ := json.Marshal(CreateKioskVersionRequest{Version: "2.0.0", Notes: "n"})
	first := httptest.NewRequest(http.MethodPost, "/kiosk-version", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("First create status = %d, want %d", rec.Code, http.StatusOK)
	}

	second := httptest.NewRequest(http.MethodPost, "/kiosk-version", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, second)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Duplicate status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	var resp kioskVersionErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Error body is not valid JSON: %v", err)
	}
	if resp.KioskVersionError.Code != "FolderExist" {
		t.Errorf("Error code = %q, want %q", resp.KioskVersionError.Code, "FolderExist")
	}
}

func TestHandleCreateVersionValidation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid JSON", http.MethodPost, "{not json", http.StatusBadRequest},
		{"empty version", http.MethodPost, `{"version":"","notes":"n"}`, http.StatusBadRequest},
		{"non-semver version", http.MethodPost, `{"version":"not-a-version","notes":"n"}`, http.StatusBadRequest},
		{"path-shaped version", http.MethodPost, `{"version":"../evil","notes":"n"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/kiosk-version", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			s.Routes().ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleDownload(t *testing.T) {
	s, kioskDir := newTestServer(t)
	publishVersion(t, kioskDir, "1.0.0")

	req := httptest.NewRequest(http.MethodGet, "/download/1.0.0/linux_x86_64/kiosk.bin", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "payload-bytes" {
		t.Errorf("Body = %q, want payload bytes", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="kiosk.bin"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q, want application/octet-stream", ct)
	}
	if cl := rec.Header().Get("Content-Length"); cl != "13" {
		t.Errorf("Content-Length = %q, want 13", cl)
	}
}

func TestHandleDownloadNotFound(t *testing.T) {
	s, kioskDir := newTestServer(t)
	publishVersion(t, kioskDir, "1.0.0")

	paths := []string{
		"/download/1.0.0/linux_x86_64/missing.bin",
		"/download/9.9.9/linux_x86_64/kiosk.bin",
		"/download/1.0.0/kiosk.bin",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Routes().ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}
