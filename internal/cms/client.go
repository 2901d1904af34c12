package cms

import (
	"errors"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrNotFound is returned when a CMS resource cannot be located.
var ErrNotFound = errors.New("cms: not found")

const (
	defaultContentDir = "content"
	defaultCacheTTL   = 5 * time.Minute
	// fallbackLang is tried after the requested language.
	fallbackLang = "vi"
)

// Client provides read-only access to page and project content. When a base URL
// is configured the remote CMS is consulted first; local markdown under
// contentDir is always the fallback.
type Client struct {
	baseURL    string
	http       *http.Client
	contentDir string
	cache      *gocache.Cache
}

// NewClient constructs a Client with the provided base URL, which may be empty.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSpace(baseURL)
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: 5 * time.Second},
		contentDir: defaultContentDir,
		cache:      gocache.New(defaultCacheTTL, 2*defaultCacheTTL),
	}
}

// SetContentDir configures the directory for local markdown.
func (c *Client) SetContentDir(dir string) {
	if c == nil {
		return
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	c.contentDir = dir
}

// ContentDir returns the configured markdown directory.
func (c *Client) ContentDir() string {
	if c == nil || strings.TrimSpace(c.contentDir) == "" {
		return defaultContentDir
	}
	return c.contentDir
}

// SetCacheDuration replaces the cache; zero or negative disables caching.
func (c *Client) SetCacheDuration(d time.Duration) {
	if c == nil {
		return
	}
	if d <= 0 {
		c.cache = nil
		return
	}
	c.cache = gocache.New(d, 2*d)
}

// SetHTTPClient swaps the transport used for remote fetches.
func (c *Client) SetHTTPClient(h *http.Client) {
	if c != nil && h != nil {
		c.http = h
	}
}

func (c *Client) cached(key string) (any, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) store(key string, v any) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.SetDefault(key, v)
}

// langPriority is the requested language followed by the fallback.
func langPriority(lang string) []string {
	if lang == fallbackLang {
		return []string{lang}
	}
	return []string{lang, fallbackLang}
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return fallbackLang
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
