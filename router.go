package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	httpapi "github.com/yourorg/lead-scout/http"
	httpv1 "github.com/yourorg/lead-scout/http/v1"
	"github.com/yourorg/lead-scout/internal/app"
	"github.com/yourorg/lead-scout/internal/logger"
)

func BuildRouter(a *app.App) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Middleware(a.Log))
	r.Use(logger.Recoverer)
	r.Use(httprate.LimitByIP(a.Config.RateLimitPerMinute, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		render.Status(req, http.StatusMethodNotAllowed)
		render.JSON(w, req, map[string]any{"error": "method_not_allowed"})
	})
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"ok": true, "source": a.Leads.SourceName()})
	})

	httpapi.RegisterListings(r, httpapi.ListingsDeps{Leads: a.Leads})
	httpapi.RegisterSearch(r, httpapi.SearchDeps{Leads: a.Leads})
	httpapi.RegisterAdvisor(r, httpapi.AdvisorDeps{Advisor: a.Advisor})

	var hydrate httpapi.HydrateDeps
	if a.ZipQueue != nil {
		hydrate.Queue = a.ZipQueue
	}
	httpapi.RegisterHydrate(r, hydrate)

	httpv1.RegisterProperties(r, httpv1.PropertiesDeps{Index: a.Index, Store: a.Store, Advisor: a.Advisor})
	return r
}
