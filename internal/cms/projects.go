package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Project is one portfolio entry shown on the works page and its detail page.
type Project struct {
	Slug      string
	Lang      string
	Title     string
	Summary   string
	Role      string
	Year      int
	Cover     string
	Link      string
	Tags      []string
	Order     int
	Body      string
	Format    string
	UpdatedAt time.Time
	SEO       ContentSEO
}

type projectFrontMatter struct {
	Title     string                `yaml:"title"`
	Summary   string                `yaml:"summary"`
	Role      string                `yaml:"role"`
	Year      int                   `yaml:"year"`
	Cover     string                `yaml:"cover"`
	Link      string                `yaml:"link"`
	Tags      []string              `yaml:"tags"`
	Order     int                   `yaml:"order"`
	Format    string                `yaml:"format"`
	UpdatedAt string                `yaml:"updated_at"`
	SEO       contentFrontMatterSEO `yaml:"seo"`
}

type rawProject struct {
	Slug      string    `json:"slug"`
	Lang      string    `json:"lang"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Role      string    `json:"role"`
	Year      int       `json:"year"`
	Cover     string    `json:"cover"`
	Link      string    `json:"link"`
	Tags      []string  `json:"tags"`
	Order     int       `json:"order"`
	Body      string    `json:"body"`
	Format    string    `json:"format"`
	UpdatedAt time.Time `json:"updated_at"`
}

const projectKind = "project"

// ListProjects returns the projects for lang, falling back to the default
// language when lang has none. Remote errors degrade to local markdown.
func (c *Client) ListProjects(ctx context.Context, lang string) ([]Project, error) {
	lang = normalizeLang(lang)
	cacheKey := "projects|" + lang
	if v, ok := c.cached(cacheKey); ok {
		return copyProjects(v.([]Project)), nil
	}

	var projects []Project
	if c != nil && c.baseURL != "" {
		if remote, err := c.listProjectsRemote(ctx, lang); err == nil && len(remote) > 0 {
			projects = remote
		}
	}
	if projects == nil {
		local, err := listProjectsLocal(c.ContentDir(), lang)
		if err != nil {
			return nil, err
		}
		projects = local
	}
	sortProjects(projects)
	c.store(cacheKey, copyProjects(projects))
	return projects, nil
}

// GetProject returns a single project by slug.
func (c *Client) GetProject(ctx context.Context, slug, lang string) (Project, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Project{}, ErrNotFound
	}
	projects, err := c.ListProjects(ctx, lang)
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

func (c *Client) listProjectsRemote(ctx context.Context, lang string) ([]Project, error) {
	endpoint, err := url.JoinPath(c.baseURL, "content", "projects")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("lang", lang)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cms: list projects status %d", resp.StatusCode)
	}
	var page struct {
		Items []rawProject `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("cms: decode projects: %w", err)
	}
	out := make([]Project, 0, len(page.Items))
	for _, raw := range page.Items {
		slug := sanitizeSlug(raw.Slug)
		if slug == "" || strings.TrimSpace(raw.Title) == "" {
			continue
		}
		out = append(out, Project{
			Slug:      slug,
			Lang:      firstNonEmpty(raw.Lang, lang),
			Title:     strings.TrimSpace(raw.Title),
			Summary:   strings.TrimSpace(raw.Summary),
			Role:      strings.TrimSpace(raw.Role),
			Year:      raw.Year,
			Cover:     strings.TrimSpace(raw.Cover),
			Link:      strings.TrimSpace(raw.Link),
			Tags:      append([]string(nil), raw.Tags...),
			Order:     raw.Order,
			Body:      raw.Body,
			Format:    firstNonEmpty(raw.Format, defaultContentFormat),
			UpdatedAt: raw.UpdatedAt,
		})
	}
	return out, nil
}

func listProjectsLocal(contentDir, lang string) ([]Project, error) {
	for _, candidate := range langPriority(lang) {
		dir := filepath.Join(contentDir, projectKind, candidate)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("cms: read %s: %w", dir, err)
		}
		var out []Project
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			p, err := readProjectMarkdown(filepath.Join(dir, e.Name()), candidate)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return []Project{}, nil
}

func readProjectMarkdown(file, lang string) (Project, error) {
	front := projectFrontMatter{}
	body, modTime, err := readMarkdownFile(file, &front)
	if err != nil {
		return Project{}, err
	}
	slug := strings.TrimSuffix(filepath.Base(file), ".md")
	p := Project{
		Slug:    sanitizeSlug(slug),
		Lang:    lang,
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Role:    strings.TrimSpace(front.Role),
		Year:    front.Year,
		Cover:   strings.TrimSpace(front.Cover),
		Link:    strings.TrimSpace(front.Link),
		Tags:    front.Tags,
		Order:   front.Order,
		Body:    body,
		Format:  firstNonEmpty(strings.TrimSpace(front.Format), defaultContentFormat),
		SEO: ContentSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	p.UpdatedAt = parseContentDate(front.UpdatedAt)
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = modTime
	}
	if p.Title == "" {
		p.Title = prettifySlug(slug)
	}
	return p, nil
}

// sortProjects orders by explicit order, then newest year, then title.
func sortProjects(items []Project) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}

func copyProjects(src []Project) []Project {
	out := make([]Project, len(src))
	for i, p := range src {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}
