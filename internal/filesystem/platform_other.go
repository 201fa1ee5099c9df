//go:build !linux && !darwin && !freebsd && !netbsd && !windows

package filesystem

import (
	"os"
	"time"
)

// getChangeTime falls back to the modification time where the platform
// exposes neither birth nor change time through os.FileInfo
func getChangeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
