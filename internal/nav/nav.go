package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/works"
	LabelKey string // i18n key, e.g. "nav.works"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
	// Index drives the staggered slide-in of the panel links.
	Index int
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/about", LabelKey: "nav.about"},
	{Path: "/works", LabelKey: "nav.works"},
}

// sections maps top-level path segments that have no menu entry of their own
// to the entry they belong under.
var sections = map[string]string{
	"/project": "/works",
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for i, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   IsActive(it.Path, currentPath),
			Index:    i,
		})
	}
	return items
}

// IsActive reports whether the link itemPath is highlighted on currentPath.
// Home matches only itself; other links match exactly or at a segment boundary.
func IsActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Home
// - Known top-level sections use nav label keys
// - Deeper segments get a prettified label
func Breadcrumbs(currentPath string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return crumbs
	}

	top := "/" + parts[0]
	if parent, ok := sections[top]; ok {
		crumbs = append(crumbs, Crumb{Href: parent, LabelKey: labelKey(parent), Active: false})
	} else {
		crumbs = append(crumbs, Crumb{Href: top, LabelKey: labelKey(top), Label: titleFromSegment(parts[0]), Active: len(parts) == 1})
	}

	href := top
	for i := 1; i < len(parts); i++ {
		href = href + "/" + parts[i]
		crumbs = append(crumbs, Crumb{
			Href:   href,
			Label:  titleFromSegment(parts[i]),
			Active: i == len(parts)-1,
		})
	}
	return crumbs
}

func labelKey(p string) string {
	for _, it := range Main {
		if it.Path == p {
			return it.LabelKey
		}
	}
	return ""
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
