package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/yourorg/lead-scout/internal/advisor"
	"github.com/yourorg/lead-scout/internal/indexer"
	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/internal/store"
)

type PropertiesDeps struct {
	// Index and Store are both optional; lookups try the index first.
	Index   *indexer.Indexer
	Store   *store.Store
	Advisor *advisor.Fallback
}

var errNotFound = errors.New("property not found")

func RegisterProperties(r chi.Router, d PropertiesDeps) {
	r.Route("/v1/properties", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			if d.Store == nil {
				storeDisabled(w, req)
				return
			}
			zip := req.URL.Query().Get("zipCode")
			if !models.IsZipCode(zip) {
				render.Status(req, http.StatusBadRequest)
				render.JSON(w, req, map[string]any{"error": "zip_required", "details": "zipCode must be a five digit zip code"})
				return
			}
			limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
			props, err := d.Store.RecentByPostal(req.Context(), zip, limit)
			if err != nil {
				internalError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"properties": props})
		})

		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			p, ok := d.lookup(w, req)
			if !ok {
				return
			}
			render.JSON(w, req, p)
		})

		r.Get("/{id}/outreach", func(w http.ResponseWriter, req *http.Request) {
			p, ok := d.lookup(w, req)
			if !ok {
				return
			}
			out, err := d.Advisor.Outreach(req.Context(), p)
			if err != nil {
				advisorError(w, req, err)
				return
			}
			render.JSON(w, req, out)
		})

		r.Get("/{id}/roi", func(w http.ResponseWriter, req *http.Request) {
			p, ok := d.lookup(w, req)
			if !ok {
				return
			}
			roi, err := d.Advisor.AnalyzeROI(req.Context(), p)
			if err != nil {
				advisorError(w, req, err)
				return
			}
			render.JSON(w, req, roi)
		})

		r.Get("/{id}/history", func(w http.ResponseWriter, req *http.Request) {
			if d.Store == nil {
				storeDisabled(w, req)
				return
			}
			id := chi.URLParam(req, "id")
			points, err := d.Store.PriceHistory(req.Context(), id)
			if err != nil {
				internalError(w, req, err)
				return
			}
			if len(points) == 0 {
				notFound(w, req, id)
				return
			}
			render.JSON(w, req, map[string]any{"id": id, "history": points})
		})
	})
}

// find resolves id through the Redis index, then the store.
func (d PropertiesDeps) find(ctx context.Context, id string) (models.Property, error) {
	p, ok, err := d.Index.Lookup(ctx, id)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("id", id).Msg("property index lookup failed")
	}
	if ok {
		return p, nil
	}
	if d.Store == nil {
		return models.Property{}, errNotFound
	}
	p, err = d.Store.GetProperty(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return p, errNotFound
	}
	return p, err
}

func (d PropertiesDeps) lookup(w http.ResponseWriter, req *http.Request) (models.Property, bool) {
	id := chi.URLParam(req, "id")
	p, err := d.find(req.Context(), id)
	switch {
	case errors.Is(err, errNotFound):
		notFound(w, req, id)
		return p, false
	case err != nil:
		internalError(w, req, err)
		return p, false
	}
	return p, true
}

func notFound(w http.ResponseWriter, req *http.Request, id string) {
	render.Status(req, http.StatusNotFound)
	render.JSON(w, req, map[string]any{"error": "not_found", "id": id})
}

func storeDisabled(w http.ResponseWriter, req *http.Request) {
	render.Status(req, http.StatusServiceUnavailable)
	render.JSON(w, req, map[string]any{"error": "store_disabled", "details": "no store is configured"})
}

func internalError(w http.ResponseWriter, req *http.Request, err error) {
	hlog.FromRequest(req).Error().Err(err).Msg("property lookup failed")
	render.Status(req, http.StatusInternalServerError)
	render.JSON(w, req, map[string]any{"error": "internal_error", "details": err.Error()})
}

func advisorError(w http.ResponseWriter, req *http.Request, err error) {
	hlog.FromRequest(req).Error().Err(err).Msg("advisor failed")
	render.Status(req, http.StatusBadGateway)
	render.JSON(w, req, map[string]any{"error": "advisor_error", "details": err.Error()})
}
