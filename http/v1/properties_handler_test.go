package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/advisor"
	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("sqlite3", filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	p := models.Property{
		ID:              "realtor:77",
		Address:         "5 Elm St, Newark, NJ 07102",
		Price:           275000,
		Provider:        "Realtor.com",
		MotivationScore: models.Int(70),
	}
	if _, err := s.UpsertProperties(ctx, []models.Property{p}, time.Now()); err != nil {
		t.Fatal(err)
	}
	return s
}

func router(d PropertiesDeps) http.Handler {
	if d.Advisor == nil {
		d.Advisor = advisor.WithFallback(nil, advisor.Template{}, zerolog.Nop())
	}
	r := chi.NewRouter()
	RegisterProperties(r, d)
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetPropertyWithoutBackends(t *testing.T) {
	rec := get(router(PropertiesDeps{}), "/v1/properties/redfin:1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rec.Code)
	}
	rec = get(router(PropertiesDeps{}), "/v1/properties/redfin:1/history")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("history without store: got %d, want 503", rec.Code)
	}
}

func TestGetPropertyFromStore(t *testing.T) {
	h := router(PropertiesDeps{Store: newStore(t)})

	rec := get(h, "/v1/properties/realtor:77")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var p models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Address != "5 Elm St, Newark, NJ 07102" {
		t.Fatalf("address: got %q", p.Address)
	}

	rec = get(h, "/v1/properties/realtor:77/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("history: got %d, want 200", rec.Code)
	}
	var hist struct {
		History []store.PricePoint `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.History) != 1 || hist.History[0].Price != 275000 {
		t.Fatalf("history: got %+v", hist.History)
	}

	rec = get(h, "/v1/properties/realtor:77/roi")
	if rec.Code != http.StatusOK {
		t.Fatalf("roi: got %d, want 200", rec.Code)
	}
	var roi models.ROIBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &roi); err != nil {
		t.Fatal(err)
	}
	if roi.PurchasePrice != 275000 || roi.SuggestedOffer == nil {
		t.Fatalf("roi: got %+v", roi)
	}

	if rec = get(h, "/v1/properties/realtor:404"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: got %d, want 404", rec.Code)
	}
}

func TestRecentByZip(t *testing.T) {
	h := router(PropertiesDeps{Store: newStore(t)})
	rec := get(h, "/v1/properties?zipCode=07102")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Properties []models.Property `json:"properties"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Properties) != 1 {
		t.Fatalf("got %d properties, want 1", len(body.Properties))
	}
	if rec = get(h, "/v1/properties?zipCode=abc"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad zip: got %d, want 400", rec.Code)
	}
}
