//go:build linux

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// getChangeTime gets the inode change time from FileInfo (Linux)
func getChangeTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Ctim.Unix())
}
