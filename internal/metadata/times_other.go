//go:build !linux

package metadata

import (
	"os"
	"time"
)

// creationTime is unavailable on this platform; callers fall back to the
// modification time.
func creationTime(info os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
