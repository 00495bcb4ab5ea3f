package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// Brand carries the configurable look of every page.
type Brand struct {
	AppName string
	Primary string
	Accent  string
	Theme   string
}

type pageData struct {
	Brand   Brand
	Session Session
	Flashes []Flash
	Now     time.Time
	Page    any
}

var sectionTitles = map[string]string{
	"welcome":   "Welcome",
	"check-in":  "Check-in",
	"rules":     "House rules",
	"how-to":    "How-to",
	"issues":    "Issues",
	"emergency": "Emergency",
	"local":     "Local guide",
	"checkout":  "Check-out",
	"faqs":      "FAQs",
	"social":    "Social",
	"print":     "Print",
	"reviews":   "Reviews",
}

var funcs = template.FuncMap{
	"lines": func(s string) []string {
		var out []string
		for _, l := range strings.Split(s, "\n") {
			if t := strings.TrimSpace(l); t != "" {
				out = append(out, t)
			}
		}
		return out
	},
	"sectionTitle": func(s string) string { return sectionTitles[s] },
	"rowOf": func(kind string, id int64, label string) recordRow {
		return recordRow{Kind: kind, ID: id, Label: label}
	},
}

// recordRow is one deletable child on the manage page.
type recordRow struct {
	Kind  string
	ID    int64
	Label string
}

var pages = []string{
	"index", "property", "howto", "error",
	"login", "dashboard", "property_form", "manage",
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	brand Brand
	pages map[string]*template.Template
}

func NewRenderer(b Brand) (*Renderer, error) {
	r := &Renderer{brand: b, pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render shows the page along with any notice left by the previous request.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page any) {
	rd.execute(w, r, status, name, page, popFlashes(w, r))
}

// RenderWith shows f on this response instead of the next one.
func (rd *Renderer) RenderWith(w http.ResponseWriter, r *http.Request, status int, name string, page any, f Flash) {
	rd.execute(w, r, status, name, page, append(popFlashes(w, r), f))
}

// execute buffers the page so a template error can still become a 500.
func (rd *Renderer) execute(w http.ResponseWriter, r *http.Request, status int, name string, page any, flashes []Flash) {
	t, ok := rd.pages[name]
	if !ok {
		log.Error().Str("page", name).Msg("unknown template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data := pageData{
		Brand:   rd.brand,
		Session: SessionFrom(r.Context()),
		Flashes: flashes,
		Now:     time.Now().UTC(),
		Page:    page,
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("page", name).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
