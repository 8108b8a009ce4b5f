package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rea-scraper/internal/db"
	"rea-scraper/internal/models"
)

// Handlers holds the API handler dependencies.
type Handlers struct {
	db *db.DB
}

// NewHandlers creates the handler set.
func NewHandlers(database *db.DB) *Handlers {
	return &Handlers{db: database}
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListProperties returns stored properties matching the query filters.
func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := db.PropertyFilter{
		Suburb:   q.Get("suburb"),
		Postcode: q.Get("postcode"),
	}

	if v := q.Get("land_size_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.LandSizeMin = &f
		}
	}
	if v := q.Get("land_size_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.LandSizeMax = &f
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	items, err := h.db.ListProperties(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.PropertyListItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

// GetProperty returns the full row for one property.
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid property id", http.StatusBadRequest)
		return
	}

	property, err := h.db.GetProperty(id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, property)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
