//go:build !unix && !windows

package filesystem

import "os"

// checkAccess approximates access rights from the owner permission bits
func checkAccess(_ string, info os.FileInfo) (readable, writable bool) {
	perm := info.Mode().Perm()
	return perm&0400 != 0, perm&0200 != 0
}
