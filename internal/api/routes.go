package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rea-scraper/internal/db"
)

// NewRouter configures the chi router for the read API.
func NewRouter(database *db.DB) http.Handler {
	r := chi.NewRouter()

	r.Use(Logger)
	r.Use(CORS)

	h := NewHandlers(database)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", h.ListProperties)
		r.Get("/properties/{id}", h.GetProperty)
	})

	return r
}
