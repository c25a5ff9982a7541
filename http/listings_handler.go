package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"
	"github.com/yourorg/lead-scout/internal/export"
	"github.com/yourorg/lead-scout/internal/leads"
)

type ListingsDeps struct {
	Leads *leads.Service
}

func RegisterListings(r chi.Router, d ListingsDeps) {
	r.Get("/api/listings", func(w http.ResponseWriter, req *http.Request) {
		f, strategy := filtersFromQuery(req)
		res, err := d.Leads.Search(req.Context(), f, strategy)
		if err != nil {
			renderSearchError(w, req, err)
			return
		}
		hlog.FromRequest(req).Info().
			Str("location", f.Location()).
			Str("provider", res.Provider).
			Int("count", len(res.Properties)).
			Msg("served listings")
		render.JSON(w, req, res)
	})

	r.Get("/api/listings/export", func(w http.ResponseWriter, req *http.Request) {
		format := export.FormatCSV
		if v := req.URL.Query().Get("format"); v != "" {
			parsed, err := export.ParseFormat(v)
			if err != nil {
				renderError(w, req, http.StatusBadRequest, map[string]any{"error": "invalid_format", "details": err.Error()})
				return
			}
			format = parsed
		}
		f, strategy := filtersFromQuery(req)
		res, err := d.Leads.Search(req.Context(), f, strategy)
		if err != nil {
			renderSearchError(w, req, err)
			return
		}
		name := strings.NewReplacer(" ", "-", ",", "").Replace(strings.ToLower(f.Location()))
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads-%s.%s"`, name, format.Extension()))
		if err := export.WriteProperties(w, res.Properties, format, export.WriteOptions{}); err != nil {
			hlog.FromRequest(req).Warn().Err(err).Msg("export write failed")
		}
	})
}
