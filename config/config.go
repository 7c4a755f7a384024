package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the process configuration read from the environment at startup.
// Each provider credential independently toggles that provider between active
// and always-degraded; nothing here is required for the process to start.
type Config struct {
	ListenAddr string

	TMDBAPIKey        string
	OMDBAPIKey        string
	GoogleBooksAPIKey string

	// ProxyListURL points at a plain-text proxy list fetched once at startup.
	// Empty or unreachable degrades the retry layer to direct-only.
	ProxyListURL string

	// Regions visited by movie availability research, in order.
	Regions []string

	// LogPath enables rotated file logging when non-empty.
	LogPath string
}

const defaultListenAddr = ":8480"

var defaultRegions = []string{"us", "gb", "ca", "au", "de", "fr"}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present (never overriding real env vars).
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env file")
	}

	cfg := &Config{
		ListenAddr:        envOr("LISTEN_ADDR", defaultListenAddr),
		TMDBAPIKey:        strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
		OMDBAPIKey:        strings.TrimSpace(os.Getenv("OMDB_API_KEY")),
		GoogleBooksAPIKey: strings.TrimSpace(os.Getenv("GOOGLE_BOOKS_API_KEY")),
		ProxyListURL:      strings.TrimSpace(os.Getenv("PROXY_LIST_URL")),
		Regions:           parseRegions(os.Getenv("RESEARCH_REGIONS")),
		LogPath:           strings.TrimSpace(os.Getenv("LOG_PATH")),
	}

	if cfg.TMDBAPIKey == "" {
		log.Printf("[config] TMDB_API_KEY not set, movie/series metadata degraded")
	}
	if cfg.OMDBAPIKey == "" {
		log.Printf("[config] OMDB_API_KEY not set, secondary movie metadata degraded")
	}

	return cfg
}

// parseRegions splits a comma-separated region list, lowercased. Invalid
// entries (anything but two letters) are dropped; an empty result falls back
// to the default region set.
func parseRegions(raw string) []string {
	var regions []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToLower(strings.TrimSpace(part))
		if len(code) == 2 && isAlpha(code) {
			regions = append(regions, code)
		}
	}
	if len(regions) == 0 {
		return append([]string(nil), defaultRegions...)
	}
	return regions
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// EnvInt reads an integer env var with a fallback for non-numeric or missing values.
func EnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}
