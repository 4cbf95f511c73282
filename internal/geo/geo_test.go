package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheKey_Quantization(t *testing.T) {
	// Coordinates differing by less than 0.0000005 degrees must share a key.
	base := CacheKey(50.0755001, 14.4378001)
	near := CacheKey(50.0755004, 14.4378004)
	if base != near {
		t.Errorf("expected identical keys, got %q and %q", base, near)
	}

	far := CacheKey(50.0765, 14.4378001)
	if base == far {
		t.Error("expected distinct keys for distinct buckets")
	}
}

func TestCacheKey_Format(t *testing.T) {
	if got := CacheKey(50.0755, 14.4378); got != "50075500_14437800" {
		t.Errorf("got %q, want 50075500_14437800", got)
	}
}

func TestCacheKey_NegativeCoordinates(t *testing.T) {
	if got := CacheKey(-33.86, -151.21); got != "-33860000_-151210000" {
		t.Errorf("got %q", got)
	}
}

func TestLoadCache_MissingFile(t *testing.T) {
	cache := LoadCache(filepath.Join(t.TempDir(), "missing.json"))
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Len())
	}
	if cache.Dirty() {
		t.Error("fresh cache must not be dirty")
	}
}

func TestLoadCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := LoadCache(path)
	if cache.Len() != 0 {
		t.Errorf("expected empty cache for corrupt file, got %d entries", cache.Len())
	}
}

func TestCache_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := LoadCache(path)
	cache.Insert("50075500_14437800", "Prague")
	if !cache.Dirty() {
		t.Fatal("insert must mark the cache dirty")
	}
	cache.Save()

	reloaded := LoadCache(path)
	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", reloaded.Len())
	}
	place, ok := reloaded.Get("50075500_14437800")
	if !ok || place != "Prague" {
		t.Errorf("got %q (%v), want Prague", place, ok)
	}
	if reloaded.Dirty() {
		t.Error("reloaded cache must not be dirty")
	}
}

func TestResolve_ParsesDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "nameforge/1.0" {
			t.Errorf("unexpected User-Agent %q", got)
		}
		q := r.URL.Query()
		if q.Get("zoom") != "10" || q.Get("addressdetails") != "0" || q.Get("format") != "json" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"display_name": "Mala Strana, Prague, Czechia"}`)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "nameforge/1.0", time.Second)
	cache := LoadCache(filepath.Join(t.TempDir(), "cache.json"))

	place, mutated := resolver.Resolve(context.Background(), 50.08, 14.40, cache)
	if place != "Mala_Strana" {
		t.Errorf("got %q, want Mala_Strana", place)
	}
	if !mutated {
		t.Error("expected cache mutation on a miss")
	}
}

func TestResolve_CacheHitSkipsNetwork(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"display_name": "Brno, Czechia"}`)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "nameforge/1.0", time.Second)
	cache := LoadCache(filepath.Join(t.TempDir(), "cache.json"))

	first, mutated := resolver.Resolve(context.Background(), 49.19, 16.61, cache)
	if !mutated {
		t.Fatal("first lookup must mutate the cache")
	}

	second, mutated := resolver.Resolve(context.Background(), 49.19, 16.61, cache)
	if mutated {
		t.Error("cache hit must not mutate")
	}
	if first != second {
		t.Errorf("cache returned %q, network returned %q", second, first)
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestResolve_FailureCachesUnknownPlace(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "nameforge/1.0", time.Second)
	cache := LoadCache(filepath.Join(t.TempDir(), "cache.json"))

	place, mutated := resolver.Resolve(context.Background(), 48.14, 17.10, cache)
	if place != UnknownPlace {
		t.Errorf("got %q, want %q", place, UnknownPlace)
	}
	if !mutated {
		t.Error("fallback result must still be cached")
	}

	// The cached failure suppresses further lookups for that bucket.
	place, mutated = resolver.Resolve(context.Background(), 48.14, 17.10, cache)
	if place != UnknownPlace || mutated {
		t.Errorf("got %q (mutated=%v), want cached %q", place, mutated, UnknownPlace)
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestResolve_CancelledContextDoesNotCache(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"display_name": "Prague, Czechia"}`)
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "nameforge/1.0", time.Second)
	cache := LoadCache(filepath.Join(t.TempDir(), "cache.json"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	place, mutated := resolver.Resolve(ctx, 50.08, 14.40, cache)
	if place != UnknownPlace {
		t.Errorf("got %q, want %q", place, UnknownPlace)
	}
	if mutated {
		t.Error("cancelled lookup must not mutate the cache")
	}
	if cache.Len() != 0 || cache.Dirty() {
		t.Errorf("cancelled lookup must leave cache empty, got %d entries (dirty=%v)", cache.Len(), cache.Dirty())
	}
	if calls != 0 {
		t.Errorf("expected no upstream calls, got %d", calls)
	}

	// The bucket stays eligible: a later lookup reaches upstream.
	place, mutated = resolver.Resolve(context.Background(), 50.08, 14.40, cache)
	if place != "Prague" || !mutated {
		t.Errorf("got %q (mutated=%v), want Prague after retry", place, mutated)
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call after retry, got %d", calls)
	}
}

func TestResolve_MalformedBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	resolver := NewResolver(server.URL, "nameforge/1.0", time.Second)
	cache := LoadCache(filepath.Join(t.TempDir(), "cache.json"))

	place, _ := resolver.Resolve(context.Background(), 51.50, -0.12, cache)
	if place != UnknownPlace {
		t.Errorf("got %q, want %q", place, UnknownPlace)
	}
}

func TestPlaceName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Prague, Czechia", "Prague"},
		{" New York , USA", "New_York"},
		{"Oneword", "Oneword"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := placeName(tc.input); got != tc.expected {
			t.Errorf("placeName(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
