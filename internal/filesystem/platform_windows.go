//go:build windows

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// getChangeTime gets the creation time from FileInfo (Windows)
func getChangeTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, stat.CreationTime.Nanoseconds())
}

// checkAccess reports whether the current process can read and write path.
// Windows has no access(2); a file is readable if it opens and writable
// unless the read-only attribute is set.
func checkAccess(path string, info os.FileInfo) (readable, writable bool) {
	if f, err := os.Open(path); err == nil {
		readable = true
		f.Close()
	}
	writable = info.Mode().Perm()&0200 != 0
	return readable, writable
}
