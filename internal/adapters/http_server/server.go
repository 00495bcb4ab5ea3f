package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

func New() *Server {
	m := chi.NewRouter()

	// middlewares must be registered before any route
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

// MountHandlers registers the public manual and the admin area.
func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		if h.TrustProxy {
			r.Use(chimw.RealIP)
		}
		r.Use(h.Sessions.Load)
		r.NotFound(h.notFound)

		r.Get("/", h.index)
		r.Get("/p/{slug}", h.home)
		r.Get("/p/{slug}/qr.png", h.qr)
		r.Get("/p/{slug}/howto/{id}", h.howTo)
		r.Post("/p/{slug}/message", h.postMessage)
		r.Get("/p/{slug}/{section}", h.section)

		r.Get("/admin/login", h.loginForm)
		r.Post("/admin/login", h.login)
		r.Get("/admin/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/admin", h.dashboard)
			r.Get("/admin/property/new", h.propertyForm)
			r.Post("/admin/property/new", h.saveProperty)
			r.Get("/admin/property/{id:[0-9]+}", h.propertyForm)
			r.Post("/admin/property/{id:[0-9]+}", h.saveProperty)
			r.Post("/admin/property/{id:[0-9]+}/delete", h.deleteProperty)
			r.Get("/admin/property/{id:[0-9]+}/manage", h.manage)
			r.Post("/admin/{pid:[0-9]+}/{kind}", h.addRecord)
			r.Post("/admin/{kind:[a-z]+}/{id:[0-9]+}/delete", h.deleteRecord)
		})
	})
}
