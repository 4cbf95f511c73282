package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

type Config struct {
	Ollama    OllamaConfig
	Nominatim NominatimConfig
	Cache     CacheConfig
	Models    ModelsConfig
}

type OllamaConfig struct {
	URL   string // defaults to http://localhost:11434
	Model string // defaults to llava:13b
}

type NominatimConfig struct {
	URL       string // reverse geocoding endpoint
	UserAgent string // Nominatim usage policy requires an identifying agent
}

type CacheConfig struct {
	Path string // geo cache file, defaults to ~/.nameforge_cache.json
}

type ModelsConfig struct {
	Aliases map[string]string `yaml:"aliases"`
}

// envOr reads an environment variable, falling back to a default when it
// is unset or empty.
func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var models ModelsConfig
	if err := yaml.Unmarshal(modelsYAML, &models); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}

	return &Config{
		Ollama: OllamaConfig{
			URL:   envOr("OLLAMA_URL", "http://localhost:11434"),
			Model: envOr("OLLAMA_MODEL", "llava:13b"),
		},
		Nominatim: NominatimConfig{
			URL:       envOr("NOMINATIM_URL", "https://nominatim.openstreetmap.org/reverse"),
			UserAgent: envOr("NOMINATIM_USER_AGENT", "nameforge/1.0"),
		},
		Cache: CacheConfig{
			Path: envOr("NAMEFORGE_CACHE_PATH", defaultCachePath()),
		},
		Models: models,
	}
}

// ResolveModel expands a model alias from the embedded manifest. Names
// without an alias entry pass through unchanged so full Ollama tags keep
// working.
func (c *Config) ResolveModel(name string) string {
	if full, ok := c.Models.Aliases[name]; ok {
		return full
	}
	return name
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nameforge_cache.json"
	}
	return filepath.Join(home, ".nameforge_cache.json")
}
