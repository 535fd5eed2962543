package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Crawler   CrawlerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// CrawlerConfig controls site discovery and per-page fetching.
type CrawlerConfig struct {
	// MaxPages is the default page cap per run when the caller leaves it unset.
	MaxPages int // default: 10

	// PerPageTimeout bounds each content fetch (connect + read).
	PerPageTimeout time.Duration // default: 30s

	// ProbeTimeout bounds each reachability HEAD check.
	ProbeTimeout time.Duration // default: 10s

	// RobotsTimeout bounds each robots.txt fetch.
	RobotsTimeout time.Duration // default: 10s

	// SitemapTimeout bounds each sitemap document fetch.
	SitemapTimeout time.Duration // default: 10s

	// MaxImagesPerPage caps image metadata collected from one page.
	MaxImagesPerPage int // default: 10

	// LinkBudget caps how many homepage links are collected before filtering.
	LinkBudget int // default: 30

	// MinImageDimension rejects images declaring a smaller width or height.
	// Images with no declared dimensions always pass; tunable threshold.
	MinImageDimension int // default: 50

	// FetchRPS paces sequential page fetches within one run.
	FetchRPS float64 // default: 4

	// UserAgent is sent on every request and matched against robots policies.
	UserAgent string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the analyze response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 1000
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent is a browser-like agent string carrying the SiteSignal
// token so robots policies can address the crawler by name.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 SiteSignal/1.0"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SITESIGNAL_HOST", "0.0.0.0"),
			Port: envIntOr("SITESIGNAL_PORT", 8080),
			Mode: envOr("SITESIGNAL_MODE", "release"),
		},
		Crawler: CrawlerConfig{
			MaxPages:          envIntOr("SITESIGNAL_MAX_PAGES", 10),
			PerPageTimeout:    envDurationOr("SITESIGNAL_PAGE_TIMEOUT", 30*time.Second),
			ProbeTimeout:      envDurationOr("SITESIGNAL_PROBE_TIMEOUT", 10*time.Second),
			RobotsTimeout:     envDurationOr("SITESIGNAL_ROBOTS_TIMEOUT", 10*time.Second),
			SitemapTimeout:    envDurationOr("SITESIGNAL_SITEMAP_TIMEOUT", 10*time.Second),
			MaxImagesPerPage:  envIntOr("SITESIGNAL_MAX_IMAGES", 10),
			LinkBudget:        envIntOr("SITESIGNAL_LINK_BUDGET", 30),
			MinImageDimension: envIntOr("SITESIGNAL_MIN_IMAGE_DIM", 50),
			FetchRPS:          envFloatOr("SITESIGNAL_FETCH_RPS", 4.0),
			UserAgent:         envOr("SITESIGNAL_USER_AGENT", DefaultUserAgent),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SITESIGNAL_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SITESIGNAL_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SITESIGNAL_RATE_RPS", 5.0),
			Burst:             envIntOr("SITESIGNAL_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SITESIGNAL_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("SITESIGNAL_LOG_LEVEL", "info"),
			Format: envOr("SITESIGNAL_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
