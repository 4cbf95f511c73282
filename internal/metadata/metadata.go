package metadata

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
)

// Coordinate is a GPS position in signed decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DateOptions controls how a capture date is resolved and formatted.
type DateOptions struct {
	DateOnly       bool // format as YYYY-MM-DD instead of YYYY-MM-DD_HH-MM-SS
	UseFileDate    bool // skip EXIF, go straight to filesystem timestamps
	PreferModified bool // prefer mtime over creation time
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02_15-04-05"
)

// ReadExif decodes the EXIF block of the file at path. Any failure
// (unreadable file, no EXIF segment) yields nil.
func ReadExif(path string) *exif.Exif {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil
	}
	return x
}

// ExtractCoordinate reads the GPS latitude/longitude rational triples from x
// and converts them to decimal degrees. A missing or malformed triple on
// either axis means no coordinate. Hemisphere references S and W negate the
// value; a missing or malformed reference defaults to N/E.
func ExtractCoordinate(x *exif.Exif) (Coordinate, bool) {
	if x == nil {
		return Coordinate{}, false
	}

	lat, ok := dmsTriple(x, exif.GPSLatitude)
	if !ok {
		return Coordinate{}, false
	}
	lon, ok := dmsTriple(x, exif.GPSLongitude)
	if !ok {
		return Coordinate{}, false
	}

	return Coordinate{
		Lat: signedDecimal(lat, refLetter(x, exif.GPSLatitudeRef, 'N'), 'S'),
		Lon: signedDecimal(lon, refLetter(x, exif.GPSLongitudeRef, 'E'), 'W'),
	}, true
}

// dmsTriple reads a degree/minute/second rational triple.
func dmsTriple(x *exif.Exif, name exif.FieldName) ([3]float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return [3]float64{}, false
	}

	var parts [3]float64
	for i := range parts {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return [3]float64{}, false
		}
		parts[i] = float64(num) / float64(den)
	}
	return parts, true
}

// signedDecimal converts a DMS triple to decimal degrees, negated when the
// hemisphere reference matches the negative hemisphere letter.
func signedDecimal(dms [3]float64, ref, negativeRef rune) float64 {
	value := dms[0] + dms[1]/60 + dms[2]/3600
	if ref == negativeRef {
		return -value
	}
	return value
}

func refLetter(x *exif.Exif, name exif.FieldName, fallback rune) rune {
	tag, err := x.Get(name)
	if err != nil {
		return fallback
	}
	s, err := tag.StringVal()
	if err != nil || s == "" {
		return fallback
	}
	return rune(s[0])
}

// ResolveDate produces a formatted date fragment for the file at path,
// trying an ordered list of sources until one yields a value: the EXIF
// original capture time, then filesystem timestamps. UseFileDate skips
// straight to the filesystem source. Returns false only when filesystem
// metadata is entirely unreadable.
func ResolveDate(path string, x *exif.Exif, opts DateOptions) (string, bool) {
	sources := []func() (time.Time, bool){
		func() (time.Time, bool) { return exifTime(path, x) },
		func() (time.Time, bool) { return fileTime(path, opts.PreferModified) },
	}
	if opts.UseFileDate {
		sources = sources[1:]
	}

	for _, source := range sources {
		if t, ok := source(); ok {
			return formatDate(t, opts.DateOnly), true
		}
	}
	return "", false
}

// exifTime parses the DateTimeOriginal tag against the two textual layouts
// cameras emit. Misses are logged with the reason so the filesystem
// fallback is visible.
func exifTime(path string, x *exif.Exif) (time.Time, bool) {
	if x == nil {
		log.Warn().Str("file", path).Msg("no EXIF data, falling back to file time")
		return time.Time{}, false
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		log.Warn().Str("file", path).Msg("no EXIF DateTimeOriginal, falling back to file time")
		return time.Time{}, false
	}
	value, err := tag.StringVal()
	if err != nil {
		log.Warn().Str("file", path).Msg("unreadable EXIF DateTimeOriginal, falling back to file time")
		return time.Time{}, false
	}

	for _, layout := range []string{"2006:01:02 15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}

	log.Warn().Str("file", path).Str("value", value).Msg("unparsable EXIF DateTimeOriginal, falling back to file time")
	return time.Time{}, false
}

// fileTime reads filesystem timestamps, preferring modified or creation
// time per preferModified and falling back to the other when the preferred
// one is unavailable.
func fileTime(path string, preferModified bool) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}

	modified := info.ModTime()
	created, createdOK := creationTime(info)

	if preferModified {
		return modified, true
	}
	if createdOK {
		return created, true
	}
	return modified, true
}

func formatDate(t time.Time, dateOnly bool) string {
	if dateOnly {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}
