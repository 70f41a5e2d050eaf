// Package catalog discovers kiosk version folders on disk and orders them
// by semantic version.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"

	"kioskd/internal/logging"
)

// VersionDirectory is a discovered version folder under the kiosk root.
type VersionDirectory struct {
	// Name is the raw directory name, used to build paths and URLs
	Name string

	// Version is the parsed semantic version of Name
	Version *semver.Version
}

// List enumerates the immediate subdirectories of root and returns the ones
// whose name parses as a strict semantic version, newest first. Directories
// with non-version names are skipped; they may be scratch folders or
// unrelated data. Listing failure on the root itself is an error since it
// signals a misconfigured kiosk directory.
func List(root string) ([]VersionDirectory, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list kiosk directory %s: %w", root, err)
	}

	var dirs []VersionDirectory
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := semver.StrictNewVersion(entry.Name())
		if err != nil {
			logging.Debug("Skipping non-version folder %q: %v", entry.Name(), err)
			continue
		}
		dirs = append(dirs, VersionDirectory{Name: entry.Name(), Version: v})
	}

	// Newest first. Build metadata is ignored by semver precedence, so
	// equal-precedence names fall back to a name comparison to keep the
	// order stable across calls.
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].Version.Equal(dirs[j].Version) {
			return dirs[i].Name > dirs[j].Name
		}
		return dirs[i].Version.GreaterThan(dirs[j].Version)
	})

	return dirs, nil
}
