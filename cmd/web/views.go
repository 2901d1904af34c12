package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"anhdu.dev/wyd-web/internal/format"
	"anhdu.dev/wyd-web/internal/i18n"
	"anhdu.dev/wyd-web/internal/observability"
)

// templateSet is one parse of the templates directory. Shared layouts and
// partials live in root; every file under pages/ gets its own clone of root so
// pages can each define "content" without clashing.
type templateSet struct {
	root  *template.Template
	pages map[string]*template.Template
}

// views renders pages and fragments. In dev mode templates are reparsed on each
// request.
type views struct {
	dir   string
	dev   bool
	funcs template.FuncMap

	// cached is set once at startup outside dev mode
	cached *templateSet
}

func newViews(dir string, dev bool, bundle *i18n.Bundle) (*views, error) {
	v := &views{dir: dir, dev: dev, funcs: funcMap(bundle)}
	// parse eagerly so a broken template fails startup, even in dev mode
	set, err := v.parse()
	if err != nil {
		return nil, err
	}
	if !dev {
		v.cached = set
	}
	return v, nil
}

func funcMap(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t":    bundle.T,
		"add":  func(a, b int) int { return a + b },
		"now":  time.Now,
		"date": format.Date,

		// jsonld marks a pre-marshalled JSON-LD payload as safe script content
		"jsonld": func(s string) template.JS { return template.JS(s) },

		"tf": func(lang, key string, pairs ...any) string {
			s := make([]string, len(pairs))
			for i, p := range pairs {
				s[i] = fmt.Sprint(p)
			}
			return bundle.Format(lang, key, s...)
		},
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				k, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[k] = pairs[i+1]
			}
			return m, nil
		},
	}
}

func (v *views) parse() (*templateSet, error) {
	var shared []string
	for _, sub := range []string{"layouts", "partials"} {
		files, err := collectTemplates(filepath.Join(v.dir, sub))
		if err != nil {
			return nil, err
		}
		shared = append(shared, files...)
	}
	if len(shared) == 0 {
		return nil, fmt.Errorf("no templates found under %s", v.dir)
	}
	root, err := template.New("_root").Funcs(v.funcs).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}

	pageFiles, err := collectTemplates(filepath.Join(v.dir, "pages"))
	if err != nil {
		return nil, err
	}
	set := &templateSet{root: root, pages: make(map[string]*template.Template, len(pageFiles))}
	for _, f := range pageFiles {
		t, err := root.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFiles(f); err != nil {
			return nil, err
		}
		set.pages[strings.TrimSuffix(filepath.Base(f), ".tmpl")] = t
	}
	return set, nil
}

// collectTemplates recursively discovers .tmpl files. ParseGlob doesn't support **.
func collectTemplates(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (v *views) set() (*templateSet, error) {
	if v.dev {
		return v.parse()
	}
	if v.cached == nil {
		return nil, fmt.Errorf("templates not initialized")
	}
	return v.cached, nil
}

// page executes the base layout of the named page.
func (v *views) page(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	set, err := v.set()
	if err != nil {
		v.fail(w, r, "template parse error", err)
		return
	}
	t, ok := set.pages[name]
	if !ok {
		v.fail(w, r, "unknown page", fmt.Errorf("page %q", name))
		return
	}
	v.write(w, r, status, t, "base", data)
}

// fragment executes a named shared template, typically for an htmx swap.
func (v *views) fragment(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	set, err := v.set()
	if err != nil {
		v.fail(w, r, "template parse error", err)
		return
	}
	v.write(w, r, status, set.root, name, data)
}

// write renders into a buffer first so a failing template never leaves a
// half-written page behind.
func (v *views) write(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		v.fail(w, r, "template exec error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (v *views) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	observability.FromContext(r.Context()).Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
