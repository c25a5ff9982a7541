package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/lead-scout/internal/models"
)

// SweepQueue schedules a one-off sweep of a zip code.
type SweepQueue interface {
	EnqueueZip(zip string) bool
}

type HydrateDeps struct {
	// Queue is nil when no store is configured.
	Queue SweepQueue
}

func RegisterHydrate(r chi.Router, d HydrateDeps) {
	r.Post("/api/hydrate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ZipCode string `json:"zipCode"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			renderError(w, req, http.StatusBadRequest, map[string]any{"error": "invalid_json", "details": err.Error()})
			return
		}
		zip := strings.TrimSpace(body.ZipCode)
		if !models.IsZipCode(zip) {
			renderError(w, req, http.StatusBadRequest, map[string]any{"error": "zip_required", "details": "zipCode must be a five digit zip code"})
			return
		}
		if d.Queue == nil {
			renderError(w, req, http.StatusServiceUnavailable, map[string]any{"error": "store_disabled", "details": "no store is configured"})
			return
		}
		if !d.Queue.EnqueueZip(zip) {
			renderError(w, req, http.StatusConflict, map[string]any{"error": "sweep_pending", "details": "a sweep for this zip is already queued or the queue is full"})
			return
		}
		render.Status(req, http.StatusAccepted)
		render.JSON(w, req, map[string]any{"ok": true, "zipCode": zip})
	})
}
