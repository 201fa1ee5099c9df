//go:build darwin || freebsd || netbsd

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// getChangeTime gets the birth time from FileInfo, falling back to the
// inode change time when the filesystem does not record one
func getChangeTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	if sec, nsec := stat.Birthtimespec.Unix(); sec > 0 {
		return time.Unix(sec, nsec)
	}
	return time.Unix(stat.Ctimespec.Unix())
}
