package manifest

import (
	"os"
	"syscall"
	"time"
)

// creationTime returns the file's birth time, which macOS records in the
// stat structure.
func creationTime(info os.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec), true
}
