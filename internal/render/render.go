// Package render drives the server-side HTML views. Templates are parsed
// once at startup; every page receives the navigation data, the current
// identity and any queued flash notices alongside its own data.
package render

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cse-motors/motors/internal/auth"
	"github.com/cse-motors/motors/internal/flash"
	"github.com/cse-motors/motors/internal/models"
)

// PageData is the per-page template payload.
type PageData map[string]interface{}

// Renderer is the view surface handlers draw on.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, page, title string, data PageData)
	RenderStatus(w http.ResponseWriter, r *http.Request, status int, page, title string, data PageData)
	Error(w http.ResponseWriter, r *http.Request, status int, message string)
}

// templateFuncs are helpers available to every page. deref unwraps the
// optional vehicle slot ids so templates can compare them with eq.
var templateFuncs = template.FuncMap{
	"deref": func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	},
}

// NavSource supplies the classification list for the site navigation.
type NavSource interface {
	GetClassifications(ctx context.Context) ([]models.Classification, error)
}

// Templates renders pages from a directory of HTML templates. Each page is
// parsed together with base.html, keyed by its path relative to the
// template directory (e.g. "account/login.html").
type Templates struct {
	templates map[string]*template.Template
	nav       NavSource
	flash     *flash.Store
}

func New(templateDir string, nav NavSource, fl *flash.Store) (*Templates, error) {
	templates := make(map[string]*template.Template)

	root := os.DirFS(templateDir)
	pages, err := fs.Glob(root, "*.html")
	if err != nil {
		return nil, err
	}
	nested, err := fs.Glob(root, "*/*.html")
	if err != nil {
		return nil, err
	}
	pages = append(pages, nested...)

	for _, page := range pages {
		if page == "base.html" {
			continue
		}
		ts, err := template.New("base.html").Funcs(templateFuncs).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
		if err != nil {
			log.Printf("Error parsing template %s: %v", page, err)
			return nil, err
		}
		templates[page] = ts
	}

	log.Printf("Loaded %d page templates from %s", len(templates), templateDir)

	return &Templates{
		templates: templates,
		nav:       nav,
		flash:     fl,
	}, nil
}

func (t *Templates) Render(w http.ResponseWriter, r *http.Request, page, title string, data PageData) {
	t.RenderStatus(w, r, http.StatusOK, page, title, data)
}

func (t *Templates) RenderStatus(w http.ResponseWriter, r *http.Request, status int, page, title string, data PageData) {
	ts, ok := t.templates[page]
	if !ok {
		log.Printf("render: template %s not found", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = PageData{}
	}
	data["Title"] = title

	classifications, err := t.nav.GetClassifications(r.Context())
	if err != nil {
		log.Printf("render: failed to load navigation: %v", err)
	}
	data["Nav"] = classifications

	if claims, authed := auth.ClaimsFrom(r.Context()); authed {
		data["LoggedIn"] = true
		data["Account"] = claims
	} else {
		data["LoggedIn"] = false
	}

	data["Messages"] = t.flash.Pop(w, r)

	// Render to a buffer first so a template fault cannot leave a half
	// written page behind a 200.
	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("render: failed to execute template %s: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the shared error page. A 404 message is shown verbatim;
// every other status collapses to a generic message so internal detail
// never reaches the client.
func (t *Templates) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	if status != http.StatusNotFound {
		message = "Oh no! There was a crash. Maybe try a different route?"
	}
	t.RenderStatus(w, r, status, "error.html", "Server Error", PageData{
		"Message": message,
		"Status":  status,
	})
}
