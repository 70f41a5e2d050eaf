package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kioskd/internal/catalog"
	"kioskd/internal/logging"
)

// Resolver finds the newest version folder for which every required
// platform has finished uploading, and builds its manifest.
type Resolver struct {
	kioskDir  string
	baseURL   string
	platforms []Platform
}

// NewResolver creates a resolver over the given kiosk directory. Download
// URLs are built against baseURL.
func NewResolver(kioskDir, baseURL string) *Resolver {
	return &Resolver{
		kioskDir:  kioskDir,
		baseURL:   baseURL,
		platforms: RequiredPlatforms,
	}
}

// ResolveLatest walks the version catalog newest-first and returns the
// manifest of the first version that is complete for every required
// platform. Partially uploaded newer versions are skipped so clients never
// receive URLs pointing at files still being written. When nothing is
// complete the sentinel manifest is returned. The only error case is an
// unlistable kiosk root, which signals misconfiguration.
func (r *Resolver) ResolveLatest() (*Manifest, error) {
	dirs, err := catalog.List(r.kioskDir)
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		m, ok := r.scanCandidate(dir.Name)
		if ok {
			return m, nil
		}
		logging.Info("Version %s is not complete for all platforms, trying next", dir.Name)
	}

	return Empty(), nil
}

// scanCandidate inspects every required platform folder of one version.
// It reports ok=false when any platform is missing its signature or
// payload; the half-built entries are discarded in that case.
func (r *Resolver) scanCandidate(version string) (*Manifest, bool) {
	entries := make(map[string]*PlatformEntry, len(r.platforms))
	for _, p := range r.platforms {
		entries[p.ID] = &PlatformEntry{}
	}

	var pubDate time.Time
	complete := true

	for _, p := range r.platforms {
		platformDir := filepath.Join(r.kioskDir, version, p.ID)
		files, err := os.ReadDir(platformDir)
		if err != nil {
			// Missing or unreadable platform folder: the upload has not
			// happened (or is in flight), so the candidate is incomplete
			logging.Warning("Failed to read platform directory %s: %v", platformDir, err)
			complete = false
			continue
		}

		entry := entries[p.ID]
		for _, file := range files {
			if file.IsDir() {
				continue
			}

			if filepath.Ext(file.Name()) == ".sig" {
				// Last .sig encountered wins; valid uploads carry exactly
				// one signature file per platform
				content, err := os.ReadFile(filepath.Join(platformDir, file.Name()))
				if err != nil {
					logging.Warning("Failed to read signature file %s: %v",
						filepath.Join(platformDir, file.Name()), err)
					continue
				}
				entry.Signature = string(content)
				continue
			}

			entry.URL = fmt.Sprintf("%s/download/%s/%s/%s", r.baseURL, version, p.ID, file.Name())

			info, err := file.Info()
			if err != nil {
				logging.Warning("Failed to stat payload file %s: %v",
					filepath.Join(platformDir, file.Name()), err)
				continue
			}
			if ts := payloadTimestamp(info); ts.After(pubDate) {
				pubDate = ts
			}
		}

		if !entry.Complete() {
			complete = false
		}
	}

	if !complete {
		return nil, false
	}

	platforms := make(map[string]PlatformEntry, len(r.platforms))
	for _, p := range r.platforms {
		platforms[p.Key] = *entries[p.ID]
	}

	return &Manifest{
		Version:   version,
		Notes:     notesPlaceholder,
		PubDate:   FormatPubDate(pubDate),
		Platforms: platforms,
	}, true
}

// payloadTimestamp prefers the file's creation time and falls back to the
// modification time on platforms where creation time is not recorded.
func payloadTimestamp(info os.FileInfo) time.Time {
	if created, ok := creationTime(info); ok {
		return created
	}
	return info.ModTime()
}
