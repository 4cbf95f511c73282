package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// CacheKey quantizes a coordinate into a spatial bucket key. Both axes are
// scaled by 1e6 and truncated, so coordinates within ~11cm of each other
// share a key.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%d_%d", int64(lat*1e6), int64(lon*1e6))
}

// Cache is a persistent mapping from quantized coordinate keys to place
// names. It is loaded once at batch start and saved once at batch end,
// only when an insertion happened.
type Cache struct {
	path    string
	entries map[string]string
	dirty   bool
}

// LoadCache reads the cache file at path. A missing or corrupt file
// degrades to an empty cache; loading never fails.
func LoadCache(path string) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("corrupt geo cache, starting empty")
		c.entries = make(map[string]string)
		return c
	}

	log.Debug().Str("path", path).Int("entries", len(c.entries)).Msg("loaded geo cache")
	return c
}

func (c *Cache) Get(key string) (string, bool) {
	value, ok := c.entries[key]
	return value, ok
}

func (c *Cache) Insert(key, value string) {
	c.entries[key] = value
	c.dirty = true
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Keys returns the cache keys in unspecified order.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Dirty reports whether any insertion happened since the cache was loaded.
func (c *Cache) Dirty() bool {
	return c.dirty
}

// Save writes the cache back to its file. Failures are logged, not
// propagated.
func (c *Cache) Save() {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to encode geo cache")
		return
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		log.Error().Str("path", c.path).Err(err).Msg("failed to save geo cache")
		return
	}
	log.Debug().Str("path", c.path).Int("entries", len(c.entries)).Msg("saved geo cache")
}
