package manifest

import (
	"os"
	"syscall"
	"time"
)

// creationTime returns the file's creation time from the Win32 file
// attribute data.
func creationTime(info os.FileInfo) (time.Time, bool) {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), true
}
