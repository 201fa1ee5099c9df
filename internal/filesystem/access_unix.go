//go:build unix

package filesystem

import (
	"os"

	"golang.org/x/sys/unix"
)

// checkAccess reports whether the current process can read and write path,
// using the real uid/gid like access(2)
func checkAccess(path string, _ os.FileInfo) (readable, writable bool) {
	readable = unix.Access(path, unix.R_OK) == nil
	writable = unix.Access(path, unix.W_OK) == nil
	return readable, writable
}
