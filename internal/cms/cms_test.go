package cms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestGetContentPageFromMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page", "vi", "about.md"), "---\ntitle: Về tui\nsummary: Giới thiệu\nupdated_at: 2025-03-01\nseo:\n  description: Mô tả\n---\n\n# Xin chào\n")

	c := NewClient("")
	c.SetContentDir(dir)

	page, err := c.GetContentPage(context.Background(), "page", "about", "vi")
	require.NoError(t, err)
	require.Equal(t, "Về tui", page.Title)
	require.Equal(t, "Giới thiệu", page.Summary)
	require.Equal(t, "Mô tả", page.SEO.Description)
	require.Equal(t, "markdown", page.Format)
	require.Equal(t, 2025, page.UpdatedAt.Year())
	require.True(t, strings.HasPrefix(page.Body, "# Xin chào"))

	// en has no file and falls back to vi
	en, err := c.GetContentPage(context.Background(), "page", "about", "en-US")
	require.NoError(t, err)
	require.Equal(t, "vi", en.Lang)

	_, err = c.GetContentPage(context.Background(), "page", "missing", "vi")
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = c.GetContentPage(context.Background(), "page", "../secrets", "vi")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestGetContentPageBadFrontMatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page", "vi", "broken.md"), "---\ntitle: [oops\n---\nbody")
	c := NewClient("")
	c.SetContentDir(dir)

	_, err := c.GetContentPage(context.Background(), "page", "broken", "vi")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
}

func TestRemoteContentPreferredAndCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/content/page/about", r.URL.Path)
		require.Equal(t, "en", r.URL.Query().Get("lang"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"About me","body":"remote body"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL + "/")
	c.SetContentDir(t.TempDir())

	for i := 0; i < 2; i++ {
		page, err := c.GetContentPage(context.Background(), "page", "about", "en")
		require.NoError(t, err)
		require.Equal(t, "About me", page.Title)
		require.Equal(t, "remote body", page.Body)
		require.Equal(t, "page", page.Kind)
	}
	require.Equal(t, int32(1), hits.Load())
}

func TestRemoteFailureFallsBackToMarkdown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page", "vi", "about.md"), "local")
	writeFile(t, filepath.Join(dir, "project", "vi", "one.md"), "---\ntitle: One\n---\nbody")

	c := NewClient(srv.URL)
	c.SetContentDir(dir)
	c.SetCacheDuration(0)

	page, err := c.GetContentPage(context.Background(), "page", "about", "vi")
	require.NoError(t, err)
	require.Equal(t, "local", page.Body)
	require.Equal(t, "About", page.Title)

	projects, err := c.ListProjects(context.Background(), "vi")
	require.NoError(t, err)
	require.Len(t, projects, 1)
}

func TestListProjectsOrdering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "project", "vi", "b-old.md"), "---\ntitle: Old\nyear: 2021\n---\n")
	writeFile(t, filepath.Join(dir, "project", "vi", "c-new.md"), "---\ntitle: New\nyear: 2024\ntags: [review, tiktok]\n---\n")
	writeFile(t, filepath.Join(dir, "project", "vi", "a-pinned.md"), "---\ntitle: Pinned\norder: -1\nyear: 2020\n---\n")
	writeFile(t, filepath.Join(dir, "project", "vi", "notes.txt"), "ignored")

	c := NewClient("")
	c.SetContentDir(dir)

	projects, err := c.ListProjects(context.Background(), "en")
	require.NoError(t, err)
	require.Len(t, projects, 3)
	require.Equal(t, []string{"a-pinned", "c-new", "b-old"}, []string{projects[0].Slug, projects[1].Slug, projects[2].Slug})
	require.Equal(t, []string{"review", "tiktok"}, projects[1].Tags)

	// callers may mutate their copy
	projects[1].Tags[0] = "changed"
	again, err := c.ListProjects(context.Background(), "en")
	require.NoError(t, err)
	require.Equal(t, "review", again[1].Tags[0])

	p, err := c.GetProject(context.Background(), "C-NEW", "vi")
	require.NoError(t, err)
	require.Equal(t, "New", p.Title)

	_, err = c.GetProject(context.Background(), "nope", "vi")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProjectsRemote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/content/projects", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"slug":"x","title":"X","year":2023},{"slug":"","title":"skip"},{"slug":"y","title":"Y","year":2024}]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	projects, err := c.ListProjects(context.Background(), "vi")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "y", projects[0].Slug)
	require.Equal(t, "markdown", projects[0].Format)
}

func TestRenderBody(t *testing.T) {
	t.Parallel()

	out, err := RenderBody("# Hi\n\n<script>alert(1)</script>\n\n[link](https://example.com)", "markdown")
	require.NoError(t, err)
	s := string(out)
	require.Contains(t, s, "<h1")
	require.NotContains(t, s, "<script")
	require.Contains(t, s, `rel="nofollow`)

	out, err = RenderBody(`<p onclick="x()">hello</p>`, "html")
	require.NoError(t, err)
	require.Equal(t, "<p>hello</p>", string(out))

	out, err = RenderBody("  ", "markdown")
	require.NoError(t, err)
	require.Empty(t, out)
}
