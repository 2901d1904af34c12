package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ContentPage represents a localized static page sourced from the CMS or local markdown.
type ContentPage struct {
	Kind      string
	Slug      string
	Lang      string
	Title     string
	Summary   string
	Body      string
	Format    string // "markdown" (default) or "html"
	UpdatedAt time.Time
	SEO       ContentSEO
}

// ContentSEO holds optional metadata overrides for static pages.
type ContentSEO struct {
	Title       string
	Description string
	OGImage     string
}

type contentFrontMatter struct {
	Title     string                `yaml:"title"`
	Summary   string                `yaml:"summary"`
	Lang      string                `yaml:"lang"`
	Format    string                `yaml:"format"`
	UpdatedAt string                `yaml:"updated_at"`
	SEO       contentFrontMatterSEO `yaml:"seo"`
}

type contentFrontMatterSEO struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	OGImage     string `yaml:"og_image"`
}

const defaultContentFormat = "markdown"

// GetContentPage fetches a localized static page, consulting the remote CMS when configured,
// otherwise falling back to local markdown.
func (c *Client) GetContentPage(ctx context.Context, kind, slug, lang string) (ContentPage, error) {
	kind = strings.TrimSpace(strings.ToLower(kind))
	if kind == "" {
		kind = "page"
	}
	slug = sanitizeSlug(slug)
	if slug == "" {
		return ContentPage{}, ErrNotFound
	}
	lang = normalizeLang(lang)

	cacheKey := strings.Join([]string{"content", kind, lang, slug}, "|")
	if v, ok := c.cached(cacheKey); ok {
		return v.(ContentPage), nil
	}

	page, err := c.fetchContentPage(ctx, kind, slug, lang)
	if err != nil {
		return ContentPage{}, err
	}
	c.store(cacheKey, page)
	return page, nil
}

func (c *Client) fetchContentPage(ctx context.Context, kind, slug, lang string) (ContentPage, error) {
	if c != nil && c.baseURL != "" {
		// remote failures other than not-found fall through to local markdown
		if page, err := c.fetchContentPageRemote(ctx, kind, slug, lang); err == nil {
			return page, nil
		}
	}
	return fallbackContentPage(c.ContentDir(), kind, slug, lang)
}

func (c *Client) fetchContentPageRemote(ctx context.Context, kind, slug, lang string) (ContentPage, error) {
	endpoint, err := url.JoinPath(c.baseURL, "content", kind, slug)
	if err != nil {
		return ContentPage{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ContentPage{}, err
	}
	q := req.URL.Query()
	q.Set("lang", lang)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return ContentPage{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ContentPage{}, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return ContentPage{}, fmt.Errorf("cms: content remote status %d", resp.StatusCode)
	}

	var payload struct {
		Kind      string    `json:"kind"`
		Slug      string    `json:"slug"`
		Lang      string    `json:"lang"`
		Title     string    `json:"title"`
		Summary   string    `json:"summary"`
		Body      string    `json:"body"`
		Format    string    `json:"format"`
		UpdatedAt time.Time `json:"updated_at"`
		SEO       struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			OGImage     string `json:"og_image"`
		} `json:"seo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ContentPage{}, err
	}
	if strings.TrimSpace(payload.Body) == "" {
		return ContentPage{}, fmt.Errorf("cms: empty body for %s/%s", kind, slug)
	}
	return ContentPage{
		Kind:      firstNonEmpty(payload.Kind, kind),
		Slug:      firstNonEmpty(payload.Slug, slug),
		Lang:      firstNonEmpty(payload.Lang, lang),
		Title:     payload.Title,
		Summary:   payload.Summary,
		Body:      payload.Body,
		Format:    firstNonEmpty(payload.Format, defaultContentFormat),
		UpdatedAt: payload.UpdatedAt,
		SEO: ContentSEO{
			Title:       payload.SEO.Title,
			Description: payload.SEO.Description,
			OGImage:     payload.SEO.OGImage,
		},
	}, nil
}

func fallbackContentPage(contentDir, kind, slug, lang string) (ContentPage, error) {
	for _, candidate := range langPriority(lang) {
		page, err := readContentMarkdown(contentDir, kind, slug, candidate)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		// parse errors stop the search
		return ContentPage{}, err
	}
	return ContentPage{}, ErrNotFound
}

func readContentMarkdown(contentDir, kind, slug, lang string) (ContentPage, error) {
	file := filepath.Join(contentDir, kind, lang, slug+".md")
	front := contentFrontMatter{}
	body, modTime, err := readMarkdownFile(file, &front)
	if err != nil {
		return ContentPage{}, err
	}
	page := ContentPage{
		Kind:    kind,
		Slug:    slug,
		Lang:    firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    body,
		Format:  firstNonEmpty(strings.TrimSpace(front.Format), defaultContentFormat),
		SEO: ContentSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	page.UpdatedAt = parseContentDate(front.UpdatedAt)
	if page.UpdatedAt.IsZero() {
		page.UpdatedAt = modTime
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

// readMarkdownFile decodes the YAML front matter of file into front and returns
// the remaining body. A missing file is ErrNotFound.
func readMarkdownFile(file string, front any) (string, time.Time, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", time.Time{}, ErrNotFound
		}
		return "", time.Time{}, err
	}
	var modTime time.Time
	if info, statErr := os.Stat(file); statErr == nil {
		modTime = info.ModTime()
	}
	fm, body := splitFrontMatter(string(data))
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), front); err != nil {
			return "", time.Time{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	return body, modTime, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
		"2006-1-2",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return slug
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return ""
	}
	if strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
