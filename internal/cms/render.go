package cms

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	bodyPolicy = newBodyPolicy()
)

func newBodyPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// RenderBody converts a page or project body to sanitized HTML. Markdown is the
// default format; "html" bodies are only sanitized.
func RenderBody(body, format string) (template.HTML, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	src := []byte(body)
	if !strings.EqualFold(strings.TrimSpace(format), "html") {
		var buf bytes.Buffer
		if err := markdown.Convert(src, &buf); err != nil {
			return "", err
		}
		src = buf.Bytes()
	}
	// sanitized output is safe to embed
	return template.HTML(bodyPolicy.SanitizeBytes(src)), nil
}
