package handlers

import (
	"anhdu.dev/wyd-web/internal/nav"
)

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       SEOData
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Menu        MenuData
	Languages   []LangOption
	Year        int

	// Optional per-page view model payloads
	Gallery  any
	Projects any
	Project  any
	Content  any
	Error    any
}

// LangOption is one entry of the footer language switcher.
type LangOption struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

// Contact is the owner card shown inside the navigation panel.
type Contact struct {
	Name          string
	Role          string
	Email         string
	StatusHeading string
	Status        string
}

// MenuData renders the navigation panel in either state.
type MenuData struct {
	Lang    string
	Open    bool
	Items   []nav.RenderedItem
	Contact Contact
	// Path is the page the panel belongs to, echoed back on every menu request.
	Path string
}
