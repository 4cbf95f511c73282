package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BuildBase combines an optional date fragment with a content fragment
// into a base filename.
func BuildBase(dateFragment, contentFragment string) string {
	if dateFragment == "" {
		return contentFragment
	}
	return dateFragment + "_" + contentFragment
}

// UniqueFilename returns a filename for baseName + ext that does not yet
// exist in dir. Collisions resolve to baseName_1, baseName_2, ... in order.
// The result is deterministic for a given directory state.
func UniqueFilename(dir, baseName, ext string) string {
	suffix := "." + ext

	name := baseName
	if !strings.HasSuffix(name, suffix) {
		name += suffix
	}
	if !fileExists(filepath.Join(dir, name)) {
		return name
	}

	stem := strings.TrimSuffix(baseName, suffix)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, suffix)
		if !fileExists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}
}

// DateFolderPath buckets filename into a subdirectory of baseDir named
// after the filename's leading date fragment (everything before the first
// underscore). Filenames without an underscore go to "unknown-date".
func DateFolderPath(baseDir, filename string) string {
	folder := "unknown-date"
	if idx := strings.Index(filename, "_"); idx >= 0 {
		folder = filename[:idx]
	}
	return filepath.Join(baseDir, folder, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
