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

type Handlers struct {
	Guide    *app.GuideService
	Admin    *app.AdminService
	Auth     *app.PasswordAuth
	Sessions *SessionManager
	Views    *Renderer
	Limiter  *RateLimiter
	// BaseURL overrides the request-derived scheme and host in QR codes.
	BaseURL string
	// TrustProxy honors X-Forwarded-For/Proto and X-Real-IP.
	TrustProxy bool
}

type errorPage struct {
	Status  int
	Message string
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusNotFound, "error", errorPage{Status: http.StatusNotFound, Message: "Page not found."})
}

// fail maps domain errors to an error page.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnknownKind) {
		h.notFound(w, r)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", requestID(r)).Msg("request failed")
	h.Views.Render(w, r, http.StatusInternalServerError, "error",
		errorPage{Status: http.StatusInternalServerError, Message: "Something went wrong."})
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}
