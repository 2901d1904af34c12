// Package gallery holds the filtering, pagination and page-number policy of the
// product gallery. Everything here is pure and recomputed per request.
package gallery

import (
	"net/url"
	"strconv"
	"strings"

	"anhdu.dev/wyd-web/internal/catalog"
)

// PageSize is the fixed number of cards per page.
const PageSize = 12

// State is the gallery view state carried in the query string.
type State struct {
	ActiveCategory string
	CurrentPage    int
}

// DefaultState is the initial view: every category, first page.
func DefaultState() State {
	return State{ActiveCategory: catalog.AllCategories, CurrentPage: 1}
}

// StateFromQuery reads ?category=&page=. Missing or invalid values fall back to
// the defaults.
func StateFromQuery(q url.Values) State {
	s := DefaultState()
	if c := strings.TrimSpace(q.Get("category")); c != "" {
		s.ActiveCategory = c
	}
	if p, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil && p >= 1 {
		s.CurrentPage = p
	}
	return s
}

// SelectCategory switches the filter and resets to page 1.
func (s State) SelectCategory(id string) State {
	id = strings.TrimSpace(id)
	if id == "" {
		id = catalog.AllCategories
	}
	return State{ActiveCategory: id, CurrentPage: 1}
}

// GoTo moves to page p without validating the upper bound; use Clamp for that.
func (s State) GoTo(p int) State {
	if p < 1 {
		p = 1
	}
	s.CurrentPage = p
	return s
}

// Clamp keeps CurrentPage within [1, totalPages].
func (s State) Clamp(totalPages int) State {
	if totalPages < 1 {
		totalPages = 1
	}
	if s.CurrentPage > totalPages {
		s.CurrentPage = totalPages
	}
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	return s
}

// Query encodes the state back to query values, omitting defaults.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.ActiveCategory != "" && s.ActiveCategory != catalog.AllCategories {
		q.Set("category", s.ActiveCategory)
	}
	if s.CurrentPage > 1 {
		q.Set("page", strconv.Itoa(s.CurrentPage))
	}
	return q
}

// Filter returns all products for "all", otherwise those whose category id
// equals active. The input slice is never modified.
func Filter(products []catalog.ProductWithCategory, active string) []catalog.ProductWithCategory {
	if active == "" || active == catalog.AllCategories {
		return products
	}
	out := make([]catalog.ProductWithCategory, 0, len(products))
	for _, p := range products {
		if p.InCategory(active) {
			out = append(out, p)
		}
	}
	return out
}

// TotalPages is max(1, ceil(n/PageSize)).
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Page returns the window [(page-1)*PageSize, page*PageSize) of items.
// Pages past the end yield an empty slice.
func Page[T any](items []T, page int) []T {
	if page < 1 {
		page = 1
	}
	// compared in pages so huge page values cannot overflow the offset
	if page-1 >= TotalPages(len(items)) {
		return items[:0:0]
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return items[:0:0]
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}

// PageLink is one entry of the pagination bar: a page number or an ellipsis.
type PageLink struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// PageNumbers lists which page numbers to render. Page 1 and the last page are
// always shown, as are current-1..current+1; every gap collapses into a single
// ellipsis.
func PageNumbers(current, total int) []PageLink {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	links := make([]PageLink, 0, 7)
	prev := 0
	for p := 1; p <= total; p++ {
		if p != 1 && p != total && (p < current-1 || p > current+1) {
			continue
		}
		if prev != 0 && p-prev > 1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: p, Current: p == current})
		prev = p
	}
	return links
}
