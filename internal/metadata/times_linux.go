//go:build linux

package metadata

import (
	"os"
	"syscall"
	"time"
)

// creationTime returns the closest thing Linux exposes to a file creation
// time: the inode change time from the underlying stat structure.
func creationTime(info os.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec), true
}
