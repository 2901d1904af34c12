package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(lookupFrom(nil))
	require.Equal(t, ":8080", cfg.Addr)
	require.False(t, cfg.Dev)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, "vi", cfg.DefaultLocale)
	require.Equal(t, []string{"vi", "en"}, cfg.SupportedLocales)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Empty(t, cfg.Warnings)
	require.NoError(t, cfg.Validate())
}

func TestPrefixedValuesWin(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(lookupFrom(map[string]string{
		"PORT":                      "9000",
		"WYD_WEB_PORT":              "7000",
		"DEV":                       "1",
		"WYD_WEB_BASE_URL":          "https://wyd.example/",
		"WYD_WEB_CATALOG_DSN":       "sqlite:wyd.db",
		"WYD_WEB_CACHE_TTL":         "30s",
		"WYD_WEB_SUPPORTED_LOCALES": "VI, en ,",
		"WYD_WEB_DB_MAX_CONNS":      "4",
		"WYD_WEB_RATE_LIMIT":        "2.5",
	}))
	require.Equal(t, ":7000", cfg.Addr)
	require.True(t, cfg.Dev)
	require.Equal(t, "https://wyd.example", cfg.BaseURL)
	require.Equal(t, "sqlite:wyd.db", cfg.CatalogDSN)
	require.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.Equal(t, []string{"vi", "en"}, cfg.SupportedLocales)
	require.Equal(t, int32(4), cfg.DBMaxConns)
	require.InDelta(t, 2.5, cfg.RateLimit, 1e-9)
}

func TestPlatformPortFallback(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(lookupFrom(map[string]string{"PORT": "9000"}))
	require.Equal(t, ":9000", cfg.Addr)
}

func TestMalformedValuesWarn(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(lookupFrom(map[string]string{
		"WYD_WEB_CACHE_TTL":  "soon",
		"WYD_WEB_RATE_BURST": "many",
	}))
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, 20, cfg.RateBurst)
	require.Len(t, cfg.Warnings, 2)
	require.Contains(t, cfg.Warnings[0], "WYD_WEB_CACHE_TTL")
}

func TestBooleanSettingsParseValues(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(lookupFrom(map[string]string{
		"WYD_WEB_CATALOG_SEED": "false",
		"WYD_WEB_TRUST_PROXY":  "true",
	}))
	require.False(t, cfg.CatalogSeed)
	require.True(t, cfg.TrustProxy)
	require.Empty(t, cfg.Warnings)

	cfg = FromLookup(lookupFrom(map[string]string{"WYD_WEB_CATALOG_SEED": "1"}))
	require.True(t, cfg.CatalogSeed)
	require.False(t, cfg.TrustProxy)

	cfg = FromLookup(lookupFrom(map[string]string{"WYD_WEB_CATALOG_SEED": "sometimes"}))
	require.False(t, cfg.CatalogSeed)
	require.Len(t, cfg.Warnings, 1)
	require.Contains(t, cfg.Warnings[0], "WYD_WEB_CATALOG_SEED")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(lookupFrom(nil))
	cfg.DBMinConns = 20
	cfg.SupportedLocales = nil
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "min conns")
	require.Contains(t, err.Error(), "no supported locales")
}

func TestBindFlags(t *testing.T) {
	t.Parallel()

	cfg := FromLookup(lookupFrom(nil))
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-addr", ":1234", "-dev", "-templates", "tpl"}))
	require.Equal(t, ":1234", cfg.Addr)
	require.True(t, cfg.Dev)
	require.Equal(t, "tpl", cfg.TemplatesDir)
	require.Equal(t, "public", cfg.PublicDir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "wyd.env")
	require.NoError(t, os.WriteFile(file, []byte("WYD_WEB_CATALOG_URL=https://db.example/rest/v1\n"), 0o600))

	t.Setenv("WYD_WEB_CONFIG_FILE", file)
	t.Setenv("WYD_WEB_CATALOG_URL", "")
	require.NoError(t, os.Unsetenv("WYD_WEB_CATALOG_URL"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://db.example/rest/v1", cfg.CatalogURL)
	require.NoError(t, os.Unsetenv("WYD_WEB_CATALOG_URL"))

	t.Setenv("WYD_WEB_CONFIG_FILE", filepath.Join(dir, "missing.env"))
	_, err = Load()
	require.Error(t, err)
}
