package gallery

import (
	"anhdu.dev/wyd-web/internal/card"
	"anhdu.dev/wyd-web/internal/catalog"
)

// CategoryTab is one filter button.
type CategoryTab struct {
	ID     string
	Name   string
	Active bool
	Href   string
	// Query is "?..." or empty; templates reuse it for the fragment URL.
	Query string
}

// PageNav is a previous/next control.
type PageNav struct {
	Page     int
	Href     string
	Query    string
	Disabled bool
}

// NumberLink is a rendered PageLink with its target.
type NumberLink struct {
	PageLink
	Href  string
	Query string
}

// View is everything the gallery fragment template needs.
type View struct {
	State              State
	Tabs               []CategoryTab
	ActiveCategoryName string
	Cards              []card.Card
	FilteredCount      int
	TotalPages         int
	Numbers            []NumberLink
	Prev               PageNav
	Next               PageNav
	Empty              bool
	ShowPagination     bool
}

// Build filters and paginates snap for state. basePath is the URL the category
// and page links point at. The returned State is clamped into range.
func Build(snap catalog.Snapshot, state State, basePath string, labels card.Labels, allLabel string) View {
	filtered := Filter(snap.Products, state.ActiveCategory)
	total := TotalPages(len(filtered))
	state = state.Clamp(total)

	v := View{
		State:          state,
		FilteredCount:  len(filtered),
		TotalPages:     total,
		Empty:          len(filtered) == 0,
		ShowPagination: len(filtered) > 0 && total > 1,
	}
	if state.ActiveCategory != catalog.AllCategories {
		v.ActiveCategoryName = snap.CategoryName(state.ActiveCategory)
	}

	v.Tabs = make([]CategoryTab, 0, len(snap.Categories)+1)
	all := state.SelectCategory(catalog.AllCategories)
	v.Tabs = append(v.Tabs, CategoryTab{
		ID:     catalog.AllCategories,
		Name:   allLabel,
		Active: state.ActiveCategory == catalog.AllCategories,
		Href:   href(basePath, all),
		Query:  query(all),
	})
	for _, c := range snap.Categories {
		next := state.SelectCategory(c.ID)
		v.Tabs = append(v.Tabs, CategoryTab{
			ID:     c.ID,
			Name:   c.Name,
			Active: state.ActiveCategory == c.ID,
			Href:   href(basePath, next),
			Query:  query(next),
		})
	}

	for i, p := range Page(filtered, state.CurrentPage) {
		v.Cards = append(v.Cards, card.Build(p, i, labels))
	}

	if v.ShowPagination {
		for _, l := range PageNumbers(state.CurrentPage, total) {
			n := NumberLink{PageLink: l}
			if !l.Ellipsis {
				n.Href = href(basePath, state.GoTo(l.Number))
				n.Query = query(state.GoTo(l.Number))
			}
			v.Numbers = append(v.Numbers, n)
		}
		v.Prev = PageNav{Page: state.CurrentPage - 1, Disabled: state.CurrentPage <= 1}
		if !v.Prev.Disabled {
			v.Prev.Href = href(basePath, state.GoTo(v.Prev.Page))
			v.Prev.Query = query(state.GoTo(v.Prev.Page))
		}
		v.Next = PageNav{Page: state.CurrentPage + 1, Disabled: state.CurrentPage >= total}
		if !v.Next.Disabled {
			v.Next.Href = href(basePath, state.GoTo(v.Next.Page))
			v.Next.Query = query(state.GoTo(v.Next.Page))
		}
	}
	return v
}

func href(basePath string, s State) string {
	return basePath + query(s)
}

func query(s State) string {
	if q := s.Query().Encode(); q != "" {
		return "?" + q
	}
	return ""
}
