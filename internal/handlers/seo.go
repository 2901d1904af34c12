package handlers

// SEOData is a lightweight copy to avoid importing the seo package here.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []string
}

// OpenGraph mirrors the og:* meta tags.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

// Twitter mirrors the twitter:* meta tags.
type Twitter struct {
	Card  string
	Image string
}

// Alternate is an hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

// NewSEO fills the common tags from a title/description pair. OpenGraph falls
// back to the page values.
func NewSEO(title, description, canonical, siteName, lang string) SEOData {
	s := SEOData{
		Title:       title,
		Description: description,
		Canonical:   canonical,
	}
	s.OG.Title = title
	s.OG.Description = description
	s.OG.Type = "website"
	s.OG.URL = canonical
	s.OG.SiteName = siteName
	s.OG.Locale = ogLocale(lang)
	s.Twitter.Card = "summary_large_image"
	return s
}

// WithImage sets the share image for OpenGraph and Twitter.
func (s SEOData) WithImage(url string) SEOData {
	if url != "" {
		s.OG.Image = url
		s.Twitter.Image = url
	}
	return s
}

func ogLocale(lang string) string {
	switch lang {
	case "vi":
		return "vi_VN"
	case "en":
		return "en_US"
	}
	return ""
}
