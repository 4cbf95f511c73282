package renamer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/nameforge/internal/ai"
	"github.com/kozaktomas/nameforge/internal/config"
	"github.com/kozaktomas/nameforge/internal/geo"
	"github.com/kozaktomas/nameforge/internal/metadata"
	"github.com/kozaktomas/nameforge/internal/naming"
	"github.com/kozaktomas/nameforge/internal/scan"
)

const (
	// noGPSName is the content fragment used when a photo carries no
	// usable GPS coordinate.
	noGPSName = "NoGPS"

	timestampLayout = "2006-01-02_15-04-05"
)

// Renamer runs the per-file naming pipeline over a batch of images.
type Renamer struct {
	geo       *geo.Resolver
	describer *ai.Describer
	cachePath string
}

// Options configures one batch run.
type Options struct {
	DryRun         bool
	OrganizeByDate bool // bucket renamed files into date-named subfolders
	Limit          int  // stop after this many files (0 = no limit)

	AI         bool // describe content with the vision model instead of GPS
	AIModel    string
	AIMaxChars int
	AICase     string
	AILanguage string

	DateOnly       bool // date fragment without time of day
	UseFileDate    bool // skip EXIF dates, use filesystem timestamps
	PreferModified bool // prefer mtime over creation time
	NoDate         bool // omit the date fragment entirely
}

// Result accumulates per-batch outcomes. Per-file failures land in Errors;
// they never abort the batch.
type Result struct {
	Processed int
	Renamed   int
	Skipped   int
	Errors    []error
}

func New(cfg *config.Config) *Renamer {
	return &Renamer{
		geo:       geo.NewResolver(cfg.Nominatim.URL, cfg.Nominatim.UserAgent, 30*time.Second),
		describer: ai.NewDescriber(cfg.Ollama.URL),
		cachePath: cfg.Cache.Path,
	}
}

// Run processes every valid image under input. The geo cache is loaded
// once up front and persisted once at the end, only when a lookup mutated
// it. Only an inaccessible input path is fatal.
func (r *Renamer) Run(ctx context.Context, input string, opts Options) (*Result, error) {
	files, err := scan.FindImages(input)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Found %d valid image files to process\n", len(files))

	cache := geo.LoadCache(r.cachePath)
	style := naming.ParseStyle(opts.AICase)
	result := &Result{}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Renaming images"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	baseFolder := input
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		baseFolder = filepath.Dir(input)
	}

	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn().Int("remaining", len(files)-result.Processed).Msg("run cancelled, stopping")
			break
		}
		if opts.Limit > 0 && result.Processed >= opts.Limit {
			log.Info().Int("limit", opts.Limit).Msg("reached image limit, stopping")
			break
		}

		r.processFile(ctx, path, baseFolder, style, cache, bar, opts, result)
		result.Processed++
		bar.Add(1)
	}
	fmt.Println()

	if cache.Dirty() {
		cache.Save()
	}

	return result, nil
}

// processFile resolves a new name for a single image and applies the
// rename (or logs it under dry-run). Failures are recorded and skipped.
func (r *Renamer) processFile(ctx context.Context, path, baseFolder string, style naming.Style, cache *geo.Cache, bar *progressbar.ProgressBar, opts Options, result *Result) {
	x := metadata.ReadExif(path)
	dateOpts := metadata.DateOptions{
		DateOnly:       opts.DateOnly,
		UseFileDate:    opts.UseFileDate,
		PreferModified: opts.PreferModified,
	}

	var dateFragment string
	if !opts.NoDate {
		dateFragment, _ = metadata.ResolveDate(path, x, dateOpts)
	}

	var content string
	if opts.AI {
		content = r.describeContent(ctx, path, x, style, opts)
	} else {
		content = r.resolvePlace(ctx, x, cache)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	baseName := naming.BuildBase(dateFragment, content)
	filename := naming.UniqueFilename(filepath.Dir(path), baseName, ext)

	newPath := filepath.Join(filepath.Dir(path), filename)
	if opts.OrganizeByDate {
		newPath = naming.DateFolderPath(baseFolder, filename)
	}

	if opts.DryRun {
		// clear the bar so the preview line does not land mid-render
		bar.Clear()
		fmt.Printf("Dry run: %s -> %s\n", path, newPath)
		return
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		log.Error().Str("file", path).Err(err).Msg("failed to create target directory")
		result.Errors = append(result.Errors, fmt.Errorf("mkdir for %s: %w", path, err))
		result.Skipped++
		return
	}
	if err := os.Rename(path, newPath); err != nil {
		log.Error().Str("file", path).Str("target", newPath).Err(err).Msg("failed to rename")
		result.Errors = append(result.Errors, fmt.Errorf("rename %s: %w", path, err))
		result.Skipped++
		return
	}

	log.Debug().Str("from", path).Str("to", newPath).Msg("renamed")
	result.Renamed++
}

// describeContent asks the vision model for a name, falling back to the
// resolved date, then to the current timestamp, when the model fails.
func (r *Renamer) describeContent(ctx context.Context, path string, x *exif.Exif, style naming.Style, opts Options) string {
	name, err := r.describer.Describe(ctx, path, ai.DescribeOptions{
		Model:    opts.AIModel,
		MaxChars: opts.AIMaxChars,
		Style:    style,
		Language: opts.AILanguage,
	})
	if err == nil {
		return name
	}

	fallback, ok := metadata.ResolveDate(path, x, metadata.DateOptions{
		UseFileDate:    opts.UseFileDate,
		PreferModified: opts.PreferModified,
	})
	if !ok {
		fallback = time.Now().Format(timestampLayout)
	}

	log.Warn().Str("file", path).Err(err).Str("fallback", fallback).
		Msg("content analysis failed, using date fallback")
	return fallback
}

// resolvePlace maps the photo's GPS coordinate to a place name via the
// cache-first resolver, or NoGPS when no coordinate was extracted.
func (r *Renamer) resolvePlace(ctx context.Context, x *exif.Exif, cache *geo.Cache) string {
	coord, ok := metadata.ExtractCoordinate(x)
	if !ok {
		return noGPSName
	}
	place, _ := r.geo.Resolve(ctx, coord.Lat, coord.Lon, cache)
	return place
}
