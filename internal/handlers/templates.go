package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"kasiBack/internal/models"
	"kasiBack/internal/services"
	"kasiBack/ui"
)

// templateData is the single payload type handed to every page template;
// each page reads only the fields it needs.
type templateData struct {
	PremiumListings  []models.Listing
	StandardListings []models.Listing
	Listing          models.Listing
	Form             listingForm
	Checkout         services.CheckoutRequest
}

var templateFuncs = template.FuncMap{
	"price": func(cents int64) string {
		return "R " + services.FormatAmount(cents)
	},
}

type TemplateRenderer struct {
	cache map[string]*template.Template
}

// NewTemplateRenderer parses the embedded page templates once at startup.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	pages, err := fs.Glob(ui.Files, "html/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)
		ts, err := template.New(name).Funcs(templateFuncs).ParseFS(ui.Files, "html/base.tmpl", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		cache[name] = ts
	}
	return &TemplateRenderer{cache: cache}, nil
}

// Render writes a page to the response. The template executes into a buffer
// first so a render failure produces a clean 500 instead of a half-written
// page.
func (t *TemplateRenderer) Render(w http.ResponseWriter, status int, page string, data templateData) {
	ts, ok := t.cache[page]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
