package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mlg-/factory-girl-book-club/monitoring"
)

// NewRouter mounts middleware and the directory routes
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(monitoring.TraceIDMiddleware)
	r.Use(monitoring.RequestLogger(app.Logger))
	r.Use(middleware.Recoverer)
	r.Use(monitoring.HTTPMetricsMiddleware)
	r.Use(CORSMiddleware())

	h := app.Handler
	r.NotFound(h.NotFound)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", monitoring.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/members", http.StatusFound)
	})
	r.Get("/members", h.ListMembers)
	r.Get("/book_club/{id}", h.ShowBookClubLegacy)
	r.Get("/book_clubs/{id}", h.ShowBookClub)
	r.Get("/pokemasters", h.ListPokemasters)

	return r
}
