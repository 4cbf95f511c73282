package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// UnknownPlace is the fallback place name when reverse geocoding yields
// nothing usable.
const UnknownPlace = "UnknownPlace"

// Resolver is a cache-first reverse-geocoding client for a
// Nominatim-compatible endpoint.
type Resolver struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewResolver creates a reverse-geocoding client.
func NewResolver(baseURL, userAgent string, timeout time.Duration) *Resolver {
	return &Resolver{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Resolve maps a coordinate to a place name, consulting cache first. Any
// lookup failure substitutes UnknownPlace. The result, fallback included,
// is inserted into the cache; the returned bool reports whether the cache
// was mutated. Failures caused by a cancelled or expired context are not
// cached, so the coordinate stays eligible for a later lookup.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64, cache *Cache) (string, bool) {
	key := CacheKey(lat, lon)
	if place, ok := cache.Get(key); ok {
		return place, false
	}

	place, err := r.fetch(ctx, lat, lon)
	if err != nil {
		log.Warn().Float64("lat", lat).Float64("lon", lon).Err(err).Msg("reverse geocoding failed")
		if ctx.Err() != nil {
			// A cancelled run never attempted a real lookup; caching the
			// fallback here would suppress retries on the next run.
			return UnknownPlace, false
		}
		place = UnknownPlace
	}

	cache.Insert(key, place)
	return place, true
}

func (r *Resolver) fetch(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"format":         {"json"},
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"zoom":           {"10"},
		"addressdetails": {"0"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("geocoding API error: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	place := placeName(payload.DisplayName)
	if place == "" {
		return "", fmt.Errorf("empty display_name in response")
	}
	return place, nil
}

// placeName takes the segment of a display name before the first comma,
// trims it, and replaces spaces with underscores.
func placeName(displayName string) string {
	first, _, _ := strings.Cut(displayName, ",")
	return strings.ReplaceAll(strings.TrimSpace(first), " ", "_")
}
