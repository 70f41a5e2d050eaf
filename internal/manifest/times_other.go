//go:build !darwin && !windows

package manifest

import (
	"os"
	"time"
)

// creationTime is unavailable on filesystems without birth-time support;
// callers fall back to the modification time.
func creationTime(_ os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
