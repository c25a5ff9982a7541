package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/yourorg/lead-scout/internal/advisor"
	"github.com/yourorg/lead-scout/internal/aggregate"
	"github.com/yourorg/lead-scout/internal/leads"
	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/rapidapi"
)

func newRouter(svc *leads.Service) chi.Router {
	r := chi.NewRouter()
	RegisterListings(r, ListingsDeps{Leads: svc})
	RegisterSearch(r, SearchDeps{Leads: svc})
	return r
}

func mockService() *leads.Service {
	return leads.New(leads.Options{Source: aggregate.Mock{}, Logger: zerolog.Nop()})
}

// emptyProviders points every provider at one server answering with empty
// result arrays.
func emptyProviders(t *testing.T) (*leads.Service, int) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"properties":[],"listings":[]}`))
	}))
	t.Cleanup(srv.Close)

	overrides := map[string]rapidapi.Config{}
	for _, slug := range rapidapi.DefaultOrder {
		overrides[slug] = rapidapi.Config{BaseURL: srv.URL}
	}
	providers, err := rapidapi.Build(nil, overrides)
	if err != nil {
		t.Fatal(err)
	}
	client := rapidapi.NewClient("test-key", rapidapi.ClientOptions{Timeout: 2 * time.Second, Logger: zerolog.Nop()})
	agg := aggregate.New(client, providers, aggregate.Options{Logger: zerolog.Nop()})
	svc := leads.New(leads.Options{Source: aggregate.NewLive(agg, true), Logger: zerolog.Nop()})
	return svc, len(providers)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListingsExhaustedIs404(t *testing.T) {
	svc, n := emptyProviders(t)
	rec := do(t, newRouter(svc), http.MethodGet, "/api/listings?zipCode=07302", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404 (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Error          string   `json:"error"`
		ProviderErrors []string `json:"providerErrors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.ProviderErrors) != n {
		t.Fatalf("providerErrors: got %d, want %d: %v", len(body.ProviderErrors), n, body.ProviderErrors)
	}
	if !strings.HasPrefix(body.Error, "No properties found") {
		t.Fatalf("error: got %q", body.Error)
	}
	if !strings.HasPrefix(body.ProviderErrors[0], "Redfin: ") {
		t.Fatalf("first provider error: got %q", body.ProviderErrors[0])
	}
}

func TestListingsNonGetIs405(t *testing.T) {
	rec := do(t, newRouter(mockService()), http.MethodPost, "/api/listings?zipCode=07302", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rec.Code)
	}
}

func TestListingsMockServesScoredProperties(t *testing.T) {
	rec := do(t, newRouter(mockService()), http.MethodGet, "/api/listings?zipCode=07302&minPrice=abc&page=x", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var res leads.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Properties) == 0 {
		t.Fatal("expected sample properties")
	}
	for _, p := range res.Properties {
		if p.MotivationScore == nil {
			t.Fatalf("property %s is not scored", p.ID)
		}
	}
}

func TestListingsFilterToEmptyIs200(t *testing.T) {
	rec := do(t, newRouter(mockService()), http.MethodGet, "/api/listings?zipCode=07302&minMotivationScore=101", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"properties":[]`) {
		t.Fatalf("body: got %s", rec.Body.String())
	}
}

func TestListingsMissingLocationIs400(t *testing.T) {
	rec := do(t, newRouter(mockService()), http.MethodGet, "/api/listings?city=Hoboken", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestInvalidZipIs400(t *testing.T) {
	svc, _ := emptyProviders(t)
	h := newRouter(svc)
	for _, target := range []string{"/api/listings?zipCode=abc", "/api/listings?zipCode=%20%20", "/api/listings?zipCodes=07302,7302"} {
		if rec := do(t, h, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s: got %d, want 400", target, rec.Code)
		}
	}
	for _, body := range []string{`{"zipCodes":[""]}`, `{"zipCodes":["   "]}`, `{"zipCodes":["abc"]}`} {
		if rec := do(t, h, http.MethodPost, "/api/search", body); rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s: got %d, want 400", body, rec.Code)
		}
	}
}

func TestListingsNotConfiguredIs500(t *testing.T) {
	agg := aggregate.New(nil, nil, aggregate.Options{Logger: zerolog.Nop()})
	svc := leads.New(leads.Options{Source: aggregate.NewLive(agg, false), Logger: zerolog.Nop()})
	rec := do(t, newRouter(svc), http.MethodGet, "/api/listings?zipCode=07302", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] == nil || body["details"] == nil {
		t.Fatalf("body: got %v, want error and details", body)
	}
}

func TestSearchPost(t *testing.T) {
	rec := do(t, newRouter(mockService()), http.MethodPost, "/api/search", `{"zipCodes":["07302"],"maxPrice":400000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var res leads.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	for _, p := range res.Properties {
		if p.Price > 400000 {
			t.Fatalf("price %d above maxPrice", p.Price)
		}
	}
	rec = do(t, newRouter(mockService()), http.MethodPost, "/api/search", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid json: got %d, want 400", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	rec := do(t, newRouter(mockService()), http.MethodGet, "/api/listings/export?zipCode=07302", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type: got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `leads-07302.csv`) {
		t.Fatalf("content disposition: got %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "id,address,price,") {
		t.Fatalf("body: got %q", rec.Body.String())
	}
	rec = do(t, newRouter(mockService()), http.MethodGet, "/api/listings/export?zipCode=07302&format=xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format: got %d, want 400", rec.Code)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/listings?zipCode=07302,07030&minPrice=1.5e5&maxPrice=&propertyType=condos&merge=all", nil)
	f, strategy := filtersFromQuery(req)
	if len(f.ZipCodes) != 2 || f.ZipCodes[1] != "07030" {
		t.Errorf("zips: got %v", f.ZipCodes)
	}
	if f.MinPrice == nil || *f.MinPrice != 150000 {
		t.Errorf("minPrice: got %v, want 150000", f.MinPrice)
	}
	if f.MaxPrice != nil {
		t.Errorf("maxPrice: got %v, want nil", *f.MaxPrice)
	}
	if f.PropertyType != models.Condo {
		t.Errorf("propertyType: got %q, want condo", f.PropertyType)
	}
	if strategy != aggregate.Merge {
		t.Errorf("strategy: got %v, want merge", strategy)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/listings?zipCode=07302&minPrice=NaN&maxPrice=1e300&maxDaysOnMarket=-Inf&minMotivationScore=Inf&page=99999999999", nil)
	f, _ = filtersFromQuery(req)
	for name, v := range map[string]*int{
		"minPrice":           f.MinPrice,
		"maxPrice":           f.MaxPrice,
		"maxDaysOnMarket":    f.MaxDaysOnMarket,
		"minMotivationScore": f.MinMotivationScore,
	} {
		if v != nil {
			t.Errorf("%s: got %d, want nil", name, *v)
		}
	}
	if f.Page != 0 {
		t.Errorf("page: got %d, want 0", f.Page)
	}
}

func TestAdvisorOutreach(t *testing.T) {
	r := chi.NewRouter()
	RegisterAdvisor(r, AdvisorDeps{Advisor: advisor.WithFallback(nil, advisor.Template{}, zerolog.Nop())})
	rec := do(t, r, http.MethodPost, "/api/outreach", `{"address":"1 River Rd, Hoboken, NJ 07030","price":500000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var out advisor.Outreach
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Message, "1 River Rd") || out.Fallback {
		t.Fatalf("got %+v", out)
	}
	rec = do(t, r, http.MethodPost, "/api/roi", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty property: got %d, want 400", rec.Code)
	}
}

type fakeQueue struct {
	accept bool
	zips   []string
}

func (f *fakeQueue) EnqueueZip(zip string) bool {
	f.zips = append(f.zips, zip)
	return f.accept
}

func TestHydrate(t *testing.T) {
	r := chi.NewRouter()
	RegisterHydrate(r, HydrateDeps{})
	if rec := do(t, r, http.MethodPost, "/api/hydrate", `{"zipCode":"07302"}`); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("without store: got %d, want 503", rec.Code)
	}

	q := &fakeQueue{accept: true}
	r = chi.NewRouter()
	RegisterHydrate(r, HydrateDeps{Queue: q})
	if rec := do(t, r, http.MethodPost, "/api/hydrate", `{"zipCode":"7302"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad zip: got %d, want 400", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, "/api/hydrate", `{"zipCode":" 07302 "}`); rec.Code != http.StatusAccepted {
		t.Fatalf("got %d, want 202", rec.Code)
	}
	if len(q.zips) != 1 || q.zips[0] != "07302" {
		t.Fatalf("queued: got %v, want [07302]", q.zips)
	}

	q.accept = false
	if rec := do(t, r, http.MethodPost, "/api/hydrate", `{"zipCode":"07302"}`); rec.Code != http.StatusConflict {
		t.Fatalf("pending sweep: got %d, want 409", rec.Code)
	}
}
