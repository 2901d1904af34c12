// Package config resolves runtime settings from .env files, WYD_WEB_* environment
// variables and command-line flags, in that order of increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "WYD_WEB_"

// Config holds everything cmd/web needs to start.
type Config struct {
	Addr     string
	Dev      bool
	LogLevel string
	// BaseURL is the public origin used for canonical links and JSON-LD.
	BaseURL string

	TemplatesDir string
	PublicDir    string
	ContentDir   string
	LocalesDir   string

	DefaultLocale    string
	SupportedLocales []string

	// Catalog backend. DSN wins over URL; neither selects the sample catalog.
	CatalogDSN string
	CatalogURL string
	CatalogKey string
	CacheTTL   time.Duration

	// CatalogSeed upserts the built-in sample data into a SQLite catalog on start.
	CatalogSeed bool

	// CatalogTimeout bounds one joint category/product load.
	CatalogTimeout time.Duration

	// ContentURL is an optional remote CMS; local markdown is always the fallback.
	ContentURL string

	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration

	// Fragment throttling per client IP. Zero RateLimit disables it.
	RateLimit float64
	RateBurst int

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP. Enable
	// only behind a proxy that overwrites those headers.
	TrustProxy bool

	ShutdownTimeout time.Duration

	// Warnings collects ignored malformed values so the caller can log them
	// once a logger exists.
	Warnings []string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the optional .env file named by WYD_WEB_CONFIG_FILE (default ".env")
// into the process environment and resolves the configuration from it.
func Load() (*Config, error) {
	file := os.Getenv(envPrefix + "CONFIG_FILE")
	if file != "" {
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	} else {
		// a missing .env is normal outside local development
		_ = godotenv.Load()
	}
	cfg := FromLookup(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromLookup resolves the configuration from an arbitrary variable source.
func FromLookup(lookup LookupFunc) *Config {
	e := env{lookup: lookup}

	port := e.str("PORT", "")
	if port == "" {
		// Cloud Run and most PaaS set PORT
		port, _ = lookup("PORT")
	}
	if port == "" {
		port = "8080"
	}
	_, dev := lookup(envPrefix + "DEV")
	if !dev {
		_, dev = lookup("DEV")
	}

	cfg := &Config{
		Addr:     ":" + port,
		Dev:      dev,
		LogLevel: e.str("LOG_LEVEL", "info"),
		BaseURL:  strings.TrimRight(e.str("BASE_URL", "http://localhost:"+port), "/"),

		TemplatesDir: e.str("TEMPLATES_DIR", "templates"),
		PublicDir:    e.str("PUBLIC_DIR", "public"),
		ContentDir:   e.str("CONTENT_DIR", "content"),
		LocalesDir:   e.str("LOCALES_DIR", "locales"),

		DefaultLocale:    e.str("DEFAULT_LOCALE", "vi"),
		SupportedLocales: e.list("SUPPORTED_LOCALES", []string{"vi", "en"}),

		CatalogDSN: e.str("CATALOG_DSN", ""),
		CatalogURL: e.str("CATALOG_URL", ""),
		CatalogKey: e.str("CATALOG_KEY", ""),
		CacheTTL:   e.duration("CACHE_TTL", time.Minute),

		CatalogSeed:    e.bool("CATALOG_SEED", false),
		CatalogTimeout: e.duration("CATALOG_TIMEOUT", 8*time.Second),
		ContentURL:     e.str("CONTENT_URL", ""),

		DBMaxConns:        e.int32("DB_MAX_CONNS", 10),
		DBMinConns:        e.int32("DB_MIN_CONNS", 1),
		DBMaxConnIdleTime: e.duration("DB_MAX_CONN_IDLE_TIME", 15*time.Minute),

		RateLimit: e.float("RATE_LIMIT", 10),
		RateBurst: e.int("RATE_BURST", 20),

		TrustProxy: e.bool("TRUST_PROXY", false),

		ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	cfg.Warnings = e.warnings
	return cfg
}

// BindFlags lets command-line flags override the resolved values.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.TemplatesDir, "templates", c.TemplatesDir, "templates directory")
	fs.StringVar(&c.PublicDir, "public", c.PublicDir, "public assets directory")
	fs.StringVar(&c.ContentDir, "content", c.ContentDir, "markdown content directory")
	fs.StringVar(&c.LocalesDir, "locales", c.LocalesDir, "locale bundle directory")
	fs.BoolVar(&c.Dev, "dev", c.Dev, "reparse templates on every request")
	fs.BoolVar(&c.CatalogSeed, "seed", c.CatalogSeed, "upsert sample data into a sqlite catalog")
	fs.BoolVar(&c.TrustProxy, "trust-proxy", c.TrustProxy, "take client IPs from forwarding headers")
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" || c.Addr == ":" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache ttl must not be negative"))
	}
	if c.CatalogTimeout <= 0 {
		errs = append(errs, errors.New("catalog timeout must be positive"))
	}
	if c.DBMinConns > c.DBMaxConns {
		errs = append(errs, fmt.Errorf("db min conns %d exceeds max %d", c.DBMinConns, c.DBMaxConns))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("rate limit values must not be negative"))
	}
	if len(c.SupportedLocales) == 0 {
		errs = append(errs, errors.New("no supported locales"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

type env struct {
	lookup   LookupFunc
	warnings []string
}

func (e *env) raw(key string) (string, bool) {
	v, ok := e.lookup(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *env) str(key, fallback string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return fallback
}

func (e *env) list(key string, fallback []string) []string {
	v, ok := e.raw(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (e *env) duration(key string, fallback time.Duration) time.Duration {
	if v, ok := e.raw(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		e.warn(key, "duration")
	}
	return fallback
}

func (e *env) bool(key string, fallback bool) bool {
	if v, ok := e.raw(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		e.warn(key, "bool")
	}
	return fallback
}

func (e *env) int(key string, fallback int) int {
	if v, ok := e.raw(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		e.warn(key, "int")
	}
	return fallback
}

func (e *env) int32(key string, fallback int32) int32 {
	if v, ok := e.raw(key); ok {
		if i, err := strconv.ParseInt(v, 10, 32); err == nil {
			return int32(i)
		}
		e.warn(key, "int32")
	}
	return fallback
}

func (e *env) float(key string, fallback float64) float64 {
	if v, ok := e.raw(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		e.warn(key, "float")
	}
	return fallback
}

func (e *env) warn(key, kind string) {
	e.warnings = append(e.warnings, fmt.Sprintf("invalid %s for %s%s, using fallback", kind, envPrefix, key))
}
