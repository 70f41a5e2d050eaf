// Package manifest resolves the latest complete kiosk version on disk and
// assembles the auto-update manifest served to clients.
package manifest

import (
	"time"
)

// Platform identifies one required build target of the kiosk application.
type Platform struct {
	// ID is the subdirectory name under each version folder
	ID string

	// Key is the JSON object key used in the manifest wire format
	Key string
}

// RequiredPlatforms is the closed set of platforms a version must provide
// before it is served to clients. The order only fixes iteration; no
// platform takes precedence over another.
var RequiredPlatforms = []Platform{
	{ID: "windows_x86_64", Key: "windows-x86_64"},
	{ID: "linux_x86_64", Key: "linux-x86_64"},
	{ID: "darwin_x86_64", Key: "darwin-x86_64"},
	{ID: "darwin_aarch64", Key: "darwin-aarch64"},
}

// PlatformEntry is the per-platform portion of the manifest. An empty
// Signature or URL means the corresponding file has not been found yet; the
// entry is complete only when both are set.
type PlatformEntry struct {
	Signature string `json:"signature"`
	URL       string `json:"url"`
}

// Complete reports whether both a signature and a payload were found.
func (e *PlatformEntry) Complete() bool {
	return e.Signature != "" && e.URL != ""
}

// Manifest is the resolved update manifest. When no complete version exists
// it carries an empty version, the epoch publish date and empty platform
// entries; that is a valid response, not an error.
type Manifest struct {
	Version   string                   `json:"version"`
	Notes     string                   `json:"notes"`
	PubDate   string                   `json:"pub_date"`
	Platforms map[string]PlatformEntry `json:"platforms"`
}

// pubDateLayout matches the wire format the original kiosk clients expect:
// RFC3339 with an explicit "+00:00" offset instead of "Z".
const pubDateLayout = "2006-01-02T15:04:05-07:00"

// notesPlaceholder is returned by the resolver; release notes live in
// notes.txt next to the version folders and are overlaid by the HTTP layer.
const notesPlaceholder = "ini notes"

// FormatPubDate renders a publish timestamp in the manifest wire format.
func FormatPubDate(t time.Time) string {
	return t.UTC().Format(pubDateLayout)
}

// Empty returns the sentinel manifest served when no version is complete.
func Empty() *Manifest {
	platforms := make(map[string]PlatformEntry, len(RequiredPlatforms))
	for _, p := range RequiredPlatforms {
		platforms[p.Key] = PlatformEntry{}
	}
	return &Manifest{
		Version:   "",
		Notes:     notesPlaceholder,
		PubDate:   FormatPubDate(time.Unix(0, 0)),
		Platforms: platforms,
	}
}
