package main

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"anhdu.dev/wyd-web/internal/cms"
	"anhdu.dev/wyd-web/internal/handlers"
	"anhdu.dev/wyd-web/internal/header"
	mw "anhdu.dev/wyd-web/internal/middleware"
	"anhdu.dev/wyd-web/internal/nav"
	"anhdu.dev/wyd-web/internal/observability"
	"anhdu.dev/wyd-web/internal/seo"
)

// galleryShell is the placeholder the page renders while htmx fetches the grid.
type galleryShell struct {
	Lang string
	// Src is the fragment URL including the page's own category/page query.
	Src string
}

type aboutView struct {
	Title   string
	Summary string
	Body    template.HTML
}

type projectView struct {
	cms.Project
	HTML    template.HTML
	Updated string
}

type errorView struct {
	Title string
	Body  string
}

// basePage fills the parts of PageData every route shares.
func (a *app) basePage(r *http.Request, titleKey, descKey string) handlers.PageData {
	lang := mw.Lang(r)
	path := r.URL.Path
	title := a.bundle.T(lang, titleKey)
	desc := a.bundle.T(lang, descKey)

	s := handlers.NewSEO(title, desc, seo.Canonical(a.cfg.BaseURL, path), a.bundle.T(lang, "site.name"), lang)
	for _, alt := range seo.Alternates(a.cfg.BaseURL, path, a.bundle.Supported()) {
		s.Alternates = append(s.Alternates, handlers.Alternate{Href: alt.Href, Hreflang: alt.Hreflang})
	}

	// ?menu=open renders the panel expanded for clients without htmx
	open := header.ParseState(r.URL.Query().Get("menu")) == header.Open
	return handlers.PageData{
		Title:       title,
		Lang:        lang,
		SEO:         s,
		Analytics:   a.analytics,
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: nav.Breadcrumbs(path),
		Menu:        a.menuData(lang, path, open),
		Languages:   a.languages(r, lang),
		Year:        time.Now().Year(),
	}
}

func (a *app) menuData(lang, path string, open bool) handlers.MenuData {
	return handlers.MenuData{
		Lang:  lang,
		Open:  open,
		Items: nav.Build(path),
		Contact: handlers.Contact{
			Name:          a.bundle.T(lang, "contact.name"),
			Role:          a.bundle.T(lang, "contact.role"),
			Email:         a.bundle.T(lang, "contact.email"),
			StatusHeading: a.bundle.T(lang, "contact.status_heading"),
			Status:        a.bundle.T(lang, "contact.status"),
		},
		Path: path,
	}
}

func (a *app) languages(r *http.Request, current string) []handlers.LangOption {
	codes := a.bundle.Supported()
	out := make([]handlers.LangOption, 0, len(codes))
	for _, code := range codes {
		q := r.URL.Query()
		q.Set("hl", code)
		out = append(out, handlers.LangOption{
			Code:   code,
			Label:  a.bundle.T(current, "lang."+code),
			Href:   r.URL.Path + "?" + q.Encode(),
			Active: code == current,
		})
	}
	return out
}

// shell builds the gallery placeholder for the page at r, forwarding the
// category/page query so deep links land on the same grid.
func shell(r *http.Request, fragmentPath string) galleryShell {
	src := fragmentPath
	q := url.Values{}
	for _, k := range []string{"category", "page"} {
		if v := r.URL.Query().Get(k); v != "" {
			q.Set(k, v)
		}
	}
	if enc := q.Encode(); enc != "" {
		src += "?" + enc
	}
	return galleryShell{Lang: mw.Lang(r), Src: src}
}

// homeHandler renders the landing page with the product gallery.
func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r, "page.home.title", "page.home.description")
	data.SEO.JSONLD = append(data.SEO.JSONLD,
		seo.JSON(seo.WebSite(a.bundle.T(data.Lang, "site.name"), seo.Canonical(a.cfg.BaseURL, "/"), data.Lang)))
	data.Gallery = shell(r, "/gallery")
	a.views.page(w, r, http.StatusOK, "home", data)
}

func (a *app) aboutHandler(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r, "page.about.title", "page.about.description")
	lang := data.Lang

	view := aboutView{Title: a.bundle.T(lang, "about.heading")}
	page, err := a.content.GetContentPage(r.Context(), "page", "about", lang)
	switch {
	case err == nil:
		body, rerr := cms.RenderBody(page.Body, page.Format)
		if rerr != nil {
			a.serverError(w, r, rerr)
			return
		}
		if page.Title != "" {
			view.Title = page.Title
		}
		view.Summary = page.Summary
		view.Body = body
		if page.SEO.Description != "" {
			data.SEO.Description = page.SEO.Description
			data.SEO.OG.Description = page.SEO.Description
		}
	case errors.Is(err, cms.ErrNotFound):
		// heading only
	default:
		observability.FromContext(r.Context()).Warn("about content unavailable", zap.Error(err))
	}
	data.Content = view
	data.SEO.JSONLD = append(data.SEO.JSONLD, seo.JSON(seo.Person(
		a.bundle.T(lang, "contact.name"),
		a.bundle.T(lang, "contact.role"),
		a.bundle.T(lang, "contact.email"),
		seo.Canonical(a.cfg.BaseURL, "/about"),
	)))
	a.views.page(w, r, http.StatusOK, "about", data)
}

// worksHandler lists projects above the product gallery.
func (a *app) worksHandler(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r, "page.works.title", "page.works.description")
	projects, err := a.content.ListProjects(r.Context(), data.Lang)
	if err != nil {
		observability.FromContext(r.Context()).Warn("projects unavailable", zap.Error(err))
	}
	data.Projects = projects
	data.Gallery = shell(r, "/works/gallery")
	a.views.page(w, r, http.StatusOK, "works", data)
}

func (a *app) projectHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	p, err := a.content.GetProject(r.Context(), chi.URLParam(r, "projectName"), lang)
	if errors.Is(err, cms.ErrNotFound) {
		a.notFoundHandler(w, r)
		return
	}
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	body, err := cms.RenderBody(p.Body, p.Format)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	data := a.basePage(r, "page.project.title", "page.project.description")
	data.SEO = data.SEO.WithImage(a.absURL(p.Cover))
	if n := len(data.Breadcrumbs); n > 0 {
		data.Breadcrumbs[n-1].Label = p.Title
	}
	view := projectView{Project: p, HTML: body}
	if !p.UpdatedAt.IsZero() {
		view.Updated = p.UpdatedAt.Format("2006-01-02")
	}
	data.Project = view

	crumbs := make([]seo.BreadcrumbItem, 0, len(data.Breadcrumbs))
	for _, c := range data.Breadcrumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = a.bundle.T(lang, c.LabelKey)
		}
		crumbs = append(crumbs, seo.BreadcrumbItem{Name: name, Item: seo.Canonical(a.cfg.BaseURL, c.Href)})
	}
	data.SEO.JSONLD = append(data.SEO.JSONLD,
		seo.JSON(seo.BreadcrumbList(crumbs)),
		seo.JSON(seo.Article(p.Title, data.SEO.Canonical, a.absURL(p.Cover), a.bundle.T(lang, "contact.name"), view.Updated)),
	)
	a.views.page(w, r, http.StatusOK, "project", data)
}

func (a *app) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r, "error.not_found.title", "error.not_found.body")
	data.SEO.Robots = "noindex"
	data.Error = errorView{Title: data.Title, Body: a.bundle.T(data.Lang, "error.not_found.body")}
	a.views.page(w, r, http.StatusNotFound, "error", data)
}

func (a *app) serverError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("request failed", zap.Error(err))
	data := a.basePage(r, "error.generic.title", "error.generic.title")
	data.SEO.Robots = "noindex"
	data.Error = errorView{Title: data.Title}
	a.views.page(w, r, http.StatusInternalServerError, "error", data)
}

// absURL resolves site-relative asset paths against the public origin.
func (a *app) absURL(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") {
		return strings.TrimRight(a.cfg.BaseURL, "/") + p
	}
	return p
}
