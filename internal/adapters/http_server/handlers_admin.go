package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"guest_manual/internal/app"
	"guest_manual/internal/domain"
)

type dashboardPage struct {
	Rows []domain.PropertyStats
}

type formField struct {
	Name  string
	Label string
	Value string
	Long  bool
}

type propertyFormPage struct {
	Property domain.Property
	IsNew    bool
	Action   string
	Fields   []formField
}

type managePage struct {
	View app.ManageView
}

var fieldLabels = map[string]string{
	"slug":            "Slug",
	"name":            "Name",
	"address_display": "Address",
	"map_url":         "Map URL",
	"checkin_time":    "Check-in time",
	"checkout_time":   "Check-out time",
	"wifi_ssid":       "Wi-Fi network",
	"wifi_password":   "Wi-Fi password",
	"parking":         "Parking",
	"quiet_hours":     "Quiet hours",
	"notes":           "Welcome notes",
	"hero_url":        "Hero image URL",
	"gallery_urls":    "Gallery image URLs (comma separated)",
	"instagram_url":   "Instagram",
	"facebook_url":    "Facebook",
	"tiktok_url":      "TikTok",
	"whatsapp_url":    "WhatsApp",
	"phone_number":    "Phone",
	"email_address":   "Email",
}

func newPropertyForm(p domain.Property, isNew bool) propertyFormPage {
	action := "/admin/property/new"
	if !isNew {
		action = "/admin/property/" + strconv.FormatInt(p.ID, 10)
	}
	fields := make([]formField, 0, len(domain.PropertyFields))
	for _, name := range domain.PropertyFields {
		fields = append(fields, formField{
			Name:  name,
			Label: fieldLabels[name],
			Value: *p.Field(name),
			Long:  name == "notes" || name == "parking" || name == "gallery_urls",
		})
	}
	return propertyFormPage{Property: p, IsNew: isNew, Action: action, Fields: fields}
}

func manageURL(pid int64) string {
	return "/admin/property/" + strconv.FormatInt(pid, 10) + "/manage"
}

// ---- auth ----

func (h *Handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "login", nil)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || !h.Auth.Check(r.PostForm.Get("password")) {
		log.Warn().Str("remote", remoteIP(r)).Msg("admin login failed")
		h.Views.RenderWith(w, r, http.StatusOK, "login", nil, Flash{Kind: "error", Text: "Wrong password"})
		return
	}
	if err := h.Sessions.Issue(w); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ---- properties ----

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Admin.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "dashboard", dashboardPage{Rows: rows})
}

func (h *Handlers) propertyForm(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") == "" {
		h.Views.Render(w, r, http.StatusOK, "property_form", newPropertyForm(domain.Property{}, true))
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.Admin.Property(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "property_form", newPropertyForm(p, false))
}

func (h *Handlers) saveProperty(w http.ResponseWriter, r *http.Request) {
	var id int64
	if chi.URLParam(r, "id") != "" {
		var err error
		if id, err = idParam(r, "id"); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.Admin.SaveProperty(r.Context(), id, r.PostForm)
	if errors.Is(err, domain.ErrSlugTaken) {
		p.ID = id
		h.Views.RenderWith(w, r, http.StatusConflict, "property_form", newPropertyForm(p, id == 0),
			Flash{Kind: "error", Text: "That slug is already used by another property"})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	setFlash(w, "ok", "Saved property")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Admin.DeleteProperty(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	setFlash(w, "ok", "Deleted")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ---- child records ----

func (h *Handlers) manage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.Admin.ManagePage(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "manage", managePage{View: v})
}

func (h *Handlers) addRecord(w http.ResponseWriter, r *http.Request) {
	pid, err := idParam(r, "pid")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.Admin.AddRecord(r.Context(), pid, kind, r.PostForm); err != nil {
		h.fail(w, r, err)
		return
	}
	setFlash(w, "ok", kind.Label()+" added")
	http.Redirect(w, r, manageURL(pid), http.StatusSeeOther)
}

func (h *Handlers) deleteRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	owner, err := h.Admin.DeleteRecord(r.Context(), kind, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	setFlash(w, "ok", "Deleted")
	http.Redirect(w, r, manageURL(owner), http.StatusSeeOther)
}
