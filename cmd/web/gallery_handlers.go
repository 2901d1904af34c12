package main

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"anhdu.dev/wyd-web/internal/card"
	"anhdu.dev/wyd-web/internal/catalog"
	"anhdu.dev/wyd-web/internal/gallery"
	mw "anhdu.dev/wyd-web/internal/middleware"
	"anhdu.dev/wyd-web/internal/observability"
	"anhdu.dev/wyd-web/internal/seo"
)

// galleryData is the payload of the "gallery" fragment.
type galleryData struct {
	Lang string
	View gallery.View
	// Fragment is the path htmx requests for category and page changes.
	Fragment string
	JSONLD   string
}

type galleryErrorData struct {
	Lang string
}

// galleryFragment serves the gallery grid for the page mounted at basePath.
// Category tabs and page links point at basePath for the address bar and at
// the fragment for htmx.
func (a *app) galleryFragment(basePath string) http.HandlerFunc {
	fragment := strings.TrimSuffix(basePath, "/") + "/gallery"
	return func(w http.ResponseWriter, r *http.Request) {
		state := gallery.StateFromQuery(r.URL.Query())
		if !mw.IsHTMX(r.Context()) {
			http.Redirect(w, r, pageURL(basePath, state), http.StatusSeeOther)
			return
		}
		lang := mw.Lang(r)
		logger := observability.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), a.cfg.CatalogTimeout)
		defer cancel()
		snap, err := catalog.Load(ctx, a.catalog)
		if err != nil {
			logger.Warn("gallery load failed", zap.Error(err))
			// 200 so htmx swaps the message in place of the loading indicator
			a.views.fragment(w, r, http.StatusOK, "gallery_error", galleryErrorData{Lang: lang})
			return
		}

		labels := card.Labels{
			Unnamed: a.bundle.T(lang, "card.unnamed"),
			Alt:     a.bundle.T(lang, "card.alt"),
		}
		v := gallery.Build(snap, state, basePath, labels, a.bundle.T(lang, "gallery.all"))
		if v.State != state {
			// the requested page was out of range
			w.Header().Set("HX-Replace-Url", pageURL(basePath, v.State))
		}

		data := galleryData{
			Lang:     lang,
			View:     v,
			Fragment: fragment,
			JSONLD:   a.itemList(snap, v),
		}
		a.views.fragment(w, r, http.StatusOK, "gallery", data)
	}
}

// itemList describes the visible page of products as a schema.org ItemList.
func (a *app) itemList(snap catalog.Snapshot, v gallery.View) string {
	visible := gallery.Page(gallery.Filter(snap.Products, v.State.ActiveCategory), v.State.CurrentPage)
	if len(visible) == 0 {
		return ""
	}
	items := make([]map[string]any, 0, len(visible))
	for i, p := range visible {
		c := v.Cards[i]
		var offer *seo.Offer
		if p.Price != nil {
			offer = &seo.Offer{Price: *p.Price, Currency: "VND", URL: c.Link}
		}
		img := ""
		if c.Image.Src != card.PlaceholderImage {
			img = a.absURL(c.Image.Src)
		}
		items = append(items, seo.Product(c.Name, c.Link, img, c.ID, offer))
	}
	start := (v.State.CurrentPage-1)*gallery.PageSize + 1
	return seo.JSON(seo.ItemList(v.ActiveCategoryName, start, items))
}

func pageURL(basePath string, s gallery.State) string {
	if q := s.Query().Encode(); q != "" {
		return basePath + "?" + q
	}
	return basePath
}
