//go:build darwin

package fsutil

import (
	"os"
	"syscall"
	"time"
)

// changeTime reports the file's birth time where the filesystem records
// one. Falls back to the modification time if the underlying stat data
// is not available.
func changeTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)
	}

	return info.ModTime()
}
