package scan

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions lists the image file extensions considered for
// renaming.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".webp": true,
	".heic": true,
	".heif": true,
	".raw":  true,
	".cr2":  true, // Canon RAW
	".nef":  true, // Nikon RAW
	".arw":  true, // Sony RAW
}

// IsSupportedExtension reports whether ext (with or without leading dot)
// names a supported image format.
func IsSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return supportedExtensions[ext]
}

// hasImageSignature checks the first bytes of the file against known image
// magic numbers (JPEG, PNG, GIF, BMP, RIFF/WEBP).
func hasImageSignature(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var buf [4]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return false
	}

	switch {
	case buf[0] == 0xFF && buf[1] == 0xD8: // JPEG
		return true
	case bytes.Equal(buf[:], []byte{0x89, 'P', 'N', 'G'}):
		return true
	case bytes.Equal(buf[:], []byte("GIF8")): // GIF87a / GIF89a
		return true
	case buf[0] == 'B' && buf[1] == 'M': // BMP
		return true
	case bytes.Equal(buf[:], []byte("RIFF")): // WEBP container
		return true
	}
	return false
}

func isValidImage(path string) bool {
	return IsSupportedExtension(filepath.Ext(path)) && hasImageSignature(path)
}

// isResourceFork reports whether the file is a macOS "._" resource fork.
func isResourceFork(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "._")
}

// FindImages collects the valid image files under path. A file path yields
// that single file if it is a valid image; a directory path yields its
// direct image entries. A missing or unreadable path is the only error.
func FindImages(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input path is not accessible: %w", err)
	}

	if !info.IsDir() {
		if isResourceFork(path) || !isValidImage(path) {
			return nil, fmt.Errorf("not a valid image file: %s", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("could not open folder %s: %w", path, err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(path, entry.Name())
		if isResourceFork(full) || !isValidImage(full) {
			continue
		}
		images = append(images, full)
	}
	return images, nil
}
