package httpserver

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"guest_manual/internal/adapters/observability"
	"guest_manual/internal/app"
	"guest_manual/internal/domain"
)

type indexPage struct {
	Properties []domain.Property
}

type propertyPage struct {
	Manual    domain.Manual
	Section   string
	Sections  []string
	PublicURL string
}

type howtoPage struct {
	Property domain.Property
	HowTo    domain.HowTo
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	props, err := h.Guide.ListProperties(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "index", indexPage{Properties: props})
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	h.renderSection(w, r, domain.SectionWelcome)
}

func (h *Handlers) section(w http.ResponseWriter, r *http.Request) {
	h.renderSection(w, r, chi.URLParam(r, "section"))
}

func (h *Handlers) renderSection(w http.ResponseWriter, r *http.Request, section string) {
	slug := chi.URLParam(r, "slug")
	m, err := h.Guide.ViewSection(r.Context(), slug, section, app.Visit{UserAgent: r.UserAgent(), IP: remoteIP(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	observability.ObservePageView(section)
	h.Views.Render(w, r, http.StatusOK, "property", propertyPage{
		Manual:    m,
		Section:   section,
		Sections:  domain.Sections,
		PublicURL: app.PublicURL(h.baseURL(r), slug),
	})
}

func (h *Handlers) howTo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, ht, err := h.Guide.HowTo(r.Context(), chi.URLParam(r, "slug"), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "howto", howtoPage{Property: p, HowTo: ht})
}

func (h *Handlers) qr(w http.ResponseWriter, r *http.Request) {
	png, err := h.Guide.QRCode(r.Context(), chi.URLParam(r, "slug"), h.baseURL(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

func (h *Handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	back := backTo(r, "/p/"+url.PathEscape(slug))

	if _, err := h.Guide.Property(r.Context(), slug); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.Limiter.Allow(remoteIP(r)) {
		observability.ObserveMessage("limited")
		setFlash(w, "error", "Too many messages, please try again shortly.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, err)
		return
	}
	_, err := h.Guide.SubmitMessage(r.Context(), slug, app.MessageInput{
		Name:     r.PostForm.Get("name"),
		Contact:  r.PostForm.Get("contact"),
		Category: r.PostForm.Get("category"),
		Body:     r.PostForm.Get("body"),
	})
	if err != nil {
		observability.ObserveMessage("failed")
		h.fail(w, r, err)
		return
	}
	observability.ObserveMessage("stored")
	setFlash(w, "ok", "Thanks, we received your message.")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// baseURL is the configured public origin, else the one the request arrived on.
func (h *Handlers) baseURL(r *http.Request) string {
	if h.BaseURL != "" {
		return h.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); h.TrustProxy && (p == "http" || p == "https") {
		scheme = p
	}
	return scheme + "://" + r.Host
}

// backTo returns the Referer when it points at this host, else def.
func backTo(r *http.Request, def string) string {
	ref := r.Referer()
	if ref == "" {
		return def
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return def
	}
	return u.RequestURI()
}
