// Package store manages the on-disk layout of kiosk version folders.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kioskd/internal/logging"
	"kioskd/internal/manifest"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	// ErrVersionExists is returned when a version folder already exists
	ErrVersionExists = errors.New("version folder already exists")

	// ErrNotFound is returned when a requested artifact does not exist
	ErrNotFound = errors.New("file or path does not exist")
)

// notesFileName holds the release notes inside each version folder.
const notesFileName = "notes.txt"

// Store performs filesystem operations under the kiosk directory.
type Store struct {
	kioskDir string
}

// New creates a store rooted at kioskDir.
func New(kioskDir string) *Store {
	return &Store{kioskDir: kioskDir}
}

// CreateVersion creates the folder skeleton for a newly published version:
// the version folder itself with 0755 permissions, a notes.txt with the
// release notes, and one empty subfolder per required platform ready to
// receive uploads. Returns ErrVersionExists when the folder is already
// there so publishers cannot clobber a released version.
func (s *Store) CreateVersion(version, notes string) error {
	versionDir := filepath.Join(s.kioskDir, version)

	if _, err := os.Stat(versionDir); err == nil {
		logging.Error("Failed to create folder %s because folder already exists", version)
		return ErrVersionExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check if folder exists: %w", err)
	}

	if err := os.Mkdir(versionDir, 0755); err != nil {
		return fmt.Errorf("failed to create kiosk version directory: %w", err)
	}

	// Mkdir honors umask; artifacts must be world-readable for serving
	if err := os.Chmod(versionDir, 0755); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.WriteFile(filepath.Join(versionDir, notesFileName), []byte(notes), 0644); err != nil {
		return fmt.Errorf("failed to write notes file: %w", err)
	}

	for _, p := range manifest.RequiredPlatforms {
		platformDir := filepath.Join(versionDir, p.ID)
		if err := os.Mkdir(platformDir, 0755); err != nil {
			return fmt.Errorf("failed to create platform directory %s: %w", p.ID, err)
		}
	}

	return nil
}

// PayloadPath resolves the on-disk path of a downloadable artifact and
// verifies it exists. Path elements that would escape the kiosk directory
// are rejected as not found.
func (s *Store) PayloadPath(version, platform, filename string) (string, error) {
	for _, part := range []string{version, platform, filename} {
		if part == "" || part != filepath.Base(part) || strings.HasPrefix(part, ".") {
			return "", ErrNotFound
		}
	}

	path := filepath.Join(s.kioskDir, version, platform, filename)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", ErrNotFound
	}

	return path, nil
}

// Notes returns the release notes stored alongside a version's platform
// folders. ok is false when the file is missing or unreadable.
func (s *Store) Notes(version string) (string, bool) {
	if version == "" || version != filepath.Base(version) {
		return "", false
	}
	content, err := os.ReadFile(filepath.Join(s.kioskDir, version, notesFileName))
	if err != nil {
		return "", false
	}
	return string(content), true
}
