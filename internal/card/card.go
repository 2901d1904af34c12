// Package card builds the view model for a single product card.
package card

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"anhdu.dev/wyd-web/internal/catalog"
	"anhdu.dev/wyd-web/internal/format"
)

const (
	// PlaceholderImage replaces missing or broken product images.
	PlaceholderImage = "/images/placeholder-product.jpg"
	// DefaultHost is shown when the purchase link is absent or unparsable.
	DefaultHost = "tiktok.com"

	shortIDLen = 6
)

// directHosts are CDNs whose images are rendered as-is, skipping the sized
// rendering path.
var directHosts = []string{"ibyteing.com", "ibyteimg.com"}

// Labels holds the localized fallbacks used while building a card.
type Labels struct {
	Unnamed string
	// Alt is the image alt text when the product has no name.
	Alt string
}

// Image describes how the card image is rendered.
type Image struct {
	Src      string
	Alt      string
	Fallback string
	// Direct images bypass the sized/lazy rendering path.
	Direct bool
}

// Card is the template view model for one product.
type Card struct {
	ID       string
	ShortID  string
	Name     string
	Image    Image
	Price    string
	Category string
	Link     string
	LinkHost string
	HasLink  bool
	// Index is the position on the current page, used for the reveal stagger.
	Index int
}

// RevealDelayMs staggers entrance animations by position.
func (c Card) RevealDelayMs() int { return c.Index * 100 }

// Build maps a product to its card. It never fails: every missing field has a
// fallback.
func Build(p catalog.ProductWithCategory, index int, labels Labels) Card {
	name := strings.TrimSpace(deref(p.Name))
	alt := name
	if name == "" {
		name = labels.Unnamed
		alt = firstNonEmpty(labels.Alt, labels.Unnamed)
	}
	link := strings.TrimSpace(deref(p.ProductLink))
	c := Card{
		ID:       p.ID,
		ShortID:  ShortID(p.ID),
		Name:     name,
		Image:    ImageFor(deref(p.ImageURL), alt),
		Price:    format.VND(p.Price),
		Link:     link,
		LinkHost: LinkHost(link),
		HasLink:  link != "",
		Index:    index,
	}
	if p.Category != nil {
		c.Category = p.Category.Name
	}
	return c
}

// ImageFor picks the rendering path for src, substituting the placeholder when
// src is empty.
func ImageFor(src, alt string) Image {
	src = strings.TrimSpace(src)
	img := Image{Src: src, Alt: alt, Fallback: PlaceholderImage}
	if src == "" {
		img.Src = PlaceholderImage
		return img
	}
	for _, h := range directHosts {
		if strings.Contains(src, h) {
			img.Direct = true
			break
		}
	}
	return img
}

// LinkHost returns the display hostname of an absolute purchase link, or
// DefaultHost when there is none.
func LinkHost(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return DefaultHost
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return DefaultHost
	}
	host := u.Hostname()
	if display, err := idna.Display.ToUnicode(host); err == nil {
		return display
	}
	return host
}

// ShortID returns the last six characters of id.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) <= shortIDLen {
		return id
	}
	return string(r[len(r)-shortIDLen:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
