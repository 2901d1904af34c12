package main

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mw "anhdu.dev/wyd-web/internal/middleware"
)

// newRouter wires the middleware stack and every route. limiter may be nil.
func newRouter(a *app, limiter *mw.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP rewrites RemoteAddr from X-Forwarded-For/X-Real-IP, which any client
	// can send. Mount it only when a trusted proxy overwrites those headers.
	if a.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(mw.HTMX)
	r.Use(mw.Logger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/assets/*", mw.AssetsWithCache("/assets", filepath.Join(a.cfg.PublicDir, "assets")))
	r.Handle("/images/*", mw.AssetsWithCache("/images", filepath.Join(a.cfg.PublicDir, "images")))

	r.Group(func(r chi.Router) {
		r.Use(mw.Locale(a.bundle))
		r.Use(mw.VaryLocale)

		r.Get("/", a.homeHandler)
		r.Get("/about", a.aboutHandler)
		r.Get("/works", a.worksHandler)
		r.Get("/project/{projectName}", a.projectHandler)

		// htmx fragments
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Get("/gallery", a.galleryFragment("/"))
			r.Get("/works/gallery", a.galleryFragment("/works"))
			r.Get("/menu", a.menuFragment)
		})

		r.NotFound(a.notFoundHandler)
	})
	return r
}
