//go:build linux

package fsutil

import (
	"os"
	"syscall"
	"time"
)

// changeTime reports the closest thing Linux offers to a creation time:
// the inode change time. Falls back to the modification time if the
// underlying stat data is not available.
func changeTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
	}

	return info.ModTime()
}
