package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names
const (
	PageMembers      = "members.html"
	PageBookClub     = "book_club.html"
	PageBookClubShow = "book_clubs_show.html"
	PagePokemasters  = "pokemasters.html"
	PageError        = "error.html"
)

var pages = []string{PageMembers, PageBookClub, PageBookClubShow, PagePokemasters, PageError}

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"derefInt": func(i *int) string {
		if i == nil {
			return ""
		}
		return strconv.Itoa(*i)
	},
}

// Renderer renders view-models into HTML pages wrapped in the shared layout
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Render executes the named page into a buffer and writes it with the given status.
// Nothing is written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write HTML response", "template", name, "error", err)
	}
	return nil
}
