package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/leads"
	"github.com/yourorg/lead-scout/internal/models"
)

type SearchDeps struct {
	Leads *leads.Service
}

// SearchRequest is the full filter set plus the merge switch.
type SearchRequest struct {
	models.SearchFilters
	Merge bool `json:"merge,omitempty"`
}

func RegisterSearch(r chi.Router, d SearchDeps) {
	r.Post("/api/search", func(w http.ResponseWriter, req *http.Request) {
		var body SearchRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			renderError(w, req, http.StatusBadRequest, map[string]any{"error": "invalid_json", "details": err.Error()})
			return
		}
		if body.PropertyType != "" {
			if pt := models.ParsePropertyType(string(body.PropertyType)); pt != "" {
				body.PropertyType = pt
			}
		}
		strategy := aggregate.FirstHit
		if body.Merge {
			strategy = aggregate.Merge
		}
		res, err := d.Leads.Search(req.Context(), body.SearchFilters, strategy)
		if err != nil {
			renderSearchError(w, req, err)
			return
		}
		render.JSON(w, req, res)
	})
}
