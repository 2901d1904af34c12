package seo

import (
	"net/url"
	"strings"
)

// Alternate is one hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

// Canonical joins base and path into an absolute URL, dropping the query.
func Canonical(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Alternates lists the hreflang variants of path, one per language plus
// x-default pointing at the bare URL.
func Alternates(base, path string, langs []string) []Alternate {
	canonical := Canonical(base, path)
	out := make([]Alternate, 0, len(langs)+1)
	for _, l := range langs {
		u, err := url.Parse(canonical)
		if err != nil {
			continue
		}
		q := u.Query()
		q.Set("hl", l)
		u.RawQuery = q.Encode()
		out = append(out, Alternate{Href: u.String(), Hreflang: l})
	}
	out = append(out, Alternate{Href: canonical, Hreflang: "x-default"})
	return out
}
