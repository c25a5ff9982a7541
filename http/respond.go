package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"
	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/leads"
	"github.com/yourorg/lead-scout/internal/models"
)

// NoResultsMessage is the user-facing text of a 404 search.
const NoResultsMessage = "No properties found. Try another location or adjust your filters."

func renderError(w http.ResponseWriter, req *http.Request, status int, body map[string]any) {
	render.Status(req, status)
	render.JSON(w, req, body)
}

// renderSearchError maps search failures onto status codes.
func renderSearchError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, leads.ErrLocationRequired):
		renderError(w, req, http.StatusBadRequest, map[string]any{"error": "location_required", "details": err.Error()})
	case aggregate.IsExhausted(err):
		pe := aggregate.ProviderErrors(err)
		if pe == nil {
			pe = []string{}
		}
		renderError(w, req, http.StatusNotFound, map[string]any{"error": NoResultsMessage, "providerErrors": pe})
	case errors.Is(err, aggregate.ErrNotConfigured):
		hlog.FromRequest(req).Error().Err(err).Msg("search unavailable")
		renderError(w, req, http.StatusInternalServerError, map[string]any{"error": "configuration_error", "details": err.Error()})
	default:
		hlog.FromRequest(req).Error().Err(err).Msg("search failed")
		renderError(w, req, http.StatusInternalServerError, map[string]any{"error": "internal_error", "details": err.Error()})
	}
}

// queryInt parses an optional integer; absent, invalid or out-of-range
// values are nil.
func queryInt(v string) *int {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	return models.Int(int(f))
}

func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// filtersFromQuery reads the listings query string. Nothing here fails: bad
// numbers are dropped and an unknown property type is kept so the type filter
// rejects everything rather than silently matching all.
func filtersFromQuery(req *http.Request) (models.SearchFilters, aggregate.Strategy) {
	q := req.URL.Query()
	f := models.SearchFilters{
		ZipCodes:           splitList(append(q["zipCode"], q["zipCodes"]...)),
		City:               strings.TrimSpace(q.Get("city")),
		State:              strings.TrimSpace(q.Get("state")),
		MinPrice:           queryInt(q.Get("minPrice")),
		MaxPrice:           queryInt(q.Get("maxPrice")),
		MaxDaysOnMarket:    queryInt(q.Get("maxDaysOnMarket")),
		MinMotivationScore: queryInt(q.Get("minMotivationScore")),
	}
	if p := queryInt(q.Get("page")); p != nil {
		f.Page = *p
	}
	if raw := strings.TrimSpace(q.Get("propertyType")); raw != "" {
		if pt := models.ParsePropertyType(raw); pt != "" {
			f.PropertyType = pt
		} else {
			f.PropertyType = models.PropertyType(raw)
		}
	}
	strategy := aggregate.FirstHit
	if strings.EqualFold(q.Get("merge"), "all") {
		strategy = aggregate.Merge
	}
	return f, strategy
}
