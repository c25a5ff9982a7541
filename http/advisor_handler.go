package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"
	"github.com/yourorg/lead-scout/internal/advisor"
	"github.com/yourorg/lead-scout/internal/models"
)

type AdvisorDeps struct {
	Advisor *advisor.Fallback
}

func RegisterAdvisor(r chi.Router, d AdvisorDeps) {
	r.Post("/api/outreach", func(w http.ResponseWriter, req *http.Request) {
		p, ok := decodeProperty(w, req)
		if !ok {
			return
		}
		out, err := d.Advisor.Outreach(req.Context(), p)
		if err != nil {
			hlog.FromRequest(req).Error().Err(err).Msg("outreach failed")
			renderError(w, req, http.StatusBadGateway, map[string]any{"error": "advisor_error", "details": err.Error()})
			return
		}
		render.JSON(w, req, out)
	})

	r.Post("/api/roi", func(w http.ResponseWriter, req *http.Request) {
		p, ok := decodeProperty(w, req)
		if !ok {
			return
		}
		roi, err := d.Advisor.AnalyzeROI(req.Context(), p)
		if err != nil {
			hlog.FromRequest(req).Error().Err(err).Msg("roi analysis failed")
			renderError(w, req, http.StatusBadGateway, map[string]any{"error": "advisor_error", "details": err.Error()})
			return
		}
		render.JSON(w, req, roi)
	})
}

func decodeProperty(w http.ResponseWriter, req *http.Request) (models.Property, bool) {
	var p models.Property
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		renderError(w, req, http.StatusBadRequest, map[string]any{"error": "invalid_json", "details": err.Error()})
		return p, false
	}
	if p.Address == "" && p.ID == "" {
		renderError(w, req, http.StatusBadRequest, map[string]any{"error": "property_required", "details": "address or id is required"})
		return p, false
	}
	return p, true
}
