package rapidapi

import (
	"testing"

	"github.com/yourorg/lead-scout/internal/models"
)

func mustNew(t *testing.T, slug string) Provider {
	t.Helper()
	p, err := New(slug, Config{})
	if err != nil {
		t.Fatalf("New(%q): %v", slug, err)
	}
	return p
}

func TestParseResponseNeverFails(t *testing.T) {
	bodies := []string{``, `not json`, `{}`, `{"data":{}}`, `{"properties":"x"}`, `[]`, `{"listings":null}`}
	for _, slug := range DefaultOrder {
		p := mustNew(t, slug)
		for _, b := range bodies {
			got := p.ParseResponse([]byte(b), fixedNow)
			if got == nil || len(got) != 0 {
				t.Errorf("%s.ParseResponse(%q) = %v, want empty slice", slug, b, got)
			}
		}
	}
}

func TestRedfinParse(t *testing.T) {
	raw := `{"data":[
		{"propertyId":101,"streetAddress":"12 Oak Ave","city":"Newark","state":"NJ","zipcode":"07102",
		 "price":"$350,000","beds":3,"baths":"1.5","sqft":"1,400","yearBuilt":1955,
		 "propertyType":"SINGLE_FAMILY","daysOnMarket":95,"priceDrop":20000,"estimatedValue":420000,
		 "url":"/NJ/Newark/12-Oak-Ave/home/101"},
		{"location":{"address":"9 Elm St, Newark, NJ 07102"},"price":"N/A"}
	]}`
	got := mustNew(t, "redfin").ParseResponse([]byte(raw), fixedNow)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	p := got[0]
	if p.ID != "redfin:101" || p.Address != "12 Oak Ave, Newark, NJ 07102" || p.Price != 350000 {
		t.Fatalf("unexpected property: %+v", p)
	}
	if p.Baths == nil || *p.Baths != 1.5 || p.Sqft == nil || *p.Sqft != 1400 {
		t.Fatalf("numbers not coerced: baths=%v sqft=%v", p.Baths, p.Sqft)
	}
	if p.PropertyType != string(models.SingleFamily) || p.Provider != "Redfin" {
		t.Fatalf("type/provider = %q/%q", p.PropertyType, p.Provider)
	}
	if p.URL != "https://www.redfin.com/NJ/Newark/12-Oak-Ave/home/101" {
		t.Fatalf("url = %q", p.URL)
	}
	q := got[1]
	if q.Price != 0 || q.Beds != nil || q.DaysOnMarket != nil || q.ImageURL != "" {
		t.Fatalf("missing fields should default: %+v", q)
	}
	if q.Address != "9 Elm St, Newark, NJ 07102" {
		t.Fatalf("address = %q", q.Address)
	}
}

func TestRealtorParse(t *testing.T) {
	raw := `{"data":{"home_search":{"results":[{
		"property_id":"555","list_price":410000,"list_date":"2024-01-01T00:00:00Z",
		"location":{"address":{"line":"1 River Rd","city":"Hoboken","state_code":"NJ","postal_code":"07030"}},
		"description":{"beds":2,"baths":2,"sqft":1100,"year_built":1975,"type":"condos"},
		"price_reduced_amount":15000,"current_estimates":[{"estimate":460000}],
		"primary_photo":{"href":"https://ap.rdcpix.com/x-w480_h360.jpg"},"href":"https://www.realtor.com/x"
	}]}}}`
	got := mustNew(t, "realtor").ParseResponse([]byte(raw), fixedNow)
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	p := got[0]
	if p.Address != "1 River Rd, Hoboken, NJ 07030" || p.Price != 410000 {
		t.Fatalf("unexpected: %+v", p)
	}
	if p.DaysOnMarket == nil || *p.DaysOnMarket != 90 {
		t.Fatalf("daysOnMarket = %v, want 90", p.DaysOnMarket)
	}
	if p.EstimatedValue == nil || *p.EstimatedValue != 460000 || p.PriceDrop != 15000 {
		t.Fatalf("enrichment missing: %+v", p)
	}
	if p.PropertyType != string(models.Condo) {
		t.Fatalf("type = %q", p.PropertyType)
	}
	if p.ImageURL != "https://ap.rdcpix.com/x-w1024_h768.jpg" {
		t.Fatalf("image = %q", p.ImageURL)
	}
}

func TestZillowParse(t *testing.T) {
	raw := `{"properties":[{"zpid":"77","address":"5 Hill St","city":"Jersey City","state":"NJ","zipcode":"07302",
		"price":299000,"bedrooms":3,"bathrooms":1,"livingArea":1250,"daysOnZillow":40,
		"priceChange":-10000,"zestimate":330000,"detailUrl":"/homedetails/77_zpid/","imgSrc":"https://photos/77.jpg"}]}`
	p := mustNew(t, "zillow").ParseResponse([]byte(raw), fixedNow)[0]
	if p.ID != "zillow:77" || p.PriceDrop != 10000 || p.URL != "https://www.zillow.com/homedetails/77_zpid/" {
		t.Fatalf("unexpected: %+v", p)
	}
	if p.DaysOnMarket == nil || *p.DaysOnMarket != 40 {
		t.Fatalf("daysOnMarket = %v", p.DaysOnMarket)
	}
}

func TestUSRealEstateStreetEasyLoopNetParse(t *testing.T) {
	us := `{"properties":[{"property_id":"9","list_price":"$250,000","address":{"line":"7 Pine Ct","city":"Camden","state_code":"NJ","postal_code":"08102"},"description":{"beds":4}}]}`
	if p := mustNew(t, "usrealestate").ParseResponse([]byte(us), fixedNow)[0]; p.Price != 250000 || p.Address != "7 Pine Ct, Camden, NJ 08102" {
		t.Fatalf("usrealestate: %+v", p)
	}
	se := `{"data":[{"id":3,"address":"200 E 10th St #4","price":"899000","bedrooms":1,"listed_at":"2024-03-01"}]}`
	if p := mustNew(t, "streeteasy").ParseResponse([]byte(se), fixedNow)[0]; p.ID != "streeteasy:3" || p.Price != 899000 || *p.DaysOnMarket != 30 {
		t.Fatalf("streeteasy: %+v", p)
	}
	ln := `{"listings":[{"listing_id":"L1","address":"1 Industrial Way","city":"Edison","state":"NJ","zip":"08817","price":"Price Upon Request","building_size":12000}]}`
	p := mustNew(t, "loopnet").ParseResponse([]byte(ln), fixedNow)[0]
	if p.Price != 0 || p.Beds != nil || p.Baths != nil || *p.Sqft != 12000 {
		t.Fatalf("loopnet: %+v", p)
	}
}

func TestBuildRequest(t *testing.T) {
	f := models.SearchFilters{ZipCodes: []string{"07302"}, MinPrice: models.Int(100000), Page: 2, PropertyType: models.SingleFamily}

	req := mustNew(t, "redfin").BuildRequest(f, 20)
	if req.Path != "/properties/search" || req.Query.Get("location") != "07302" {
		t.Fatalf("redfin request = %+v", req)
	}
	if req.Query.Get("offset") != "20" || req.Query.Get("min_price") != "100000" || req.Query.Get("property_type") != "SINGLE_FAMILY" {
		t.Fatalf("redfin query = %v", req.Query)
	}
	if req.Query.Has("max_price") {
		t.Fatalf("unset max price must not be sent")
	}

	city := models.SearchFilters{City: "Newark", State: "NJ"}
	req = mustNew(t, "usrealestate").BuildRequest(city, 20)
	if req.Query.Get("city") != "Newark" || req.Query.Get("state_code") != "NJ" || req.Query.Has("postal_code") {
		t.Fatalf("usrealestate query = %v", req.Query)
	}
	req = mustNew(t, "zillow").BuildRequest(city, 20)
	if req.Query.Get("location") != "Newark, NJ" {
		t.Fatalf("zillow location = %q", req.Query.Get("location"))
	}
}

func TestBuildOrderAndOverrides(t *testing.T) {
	ps, err := Build([]string{"zillow", "Redfin", "zillow"}, map[string]Config{"redfin": {BaseURL: "http://127.0.0.1:1"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 2 || ps[0].Config().Name != "Zillow" || ps[1].Config().Name != "Redfin" {
		t.Fatalf("order = %v", ps)
	}
	if ps[1].Config().BaseURL != "http://127.0.0.1:1" || ps[1].Config().KeyHeader != "X-RapidAPI-Key" {
		t.Fatalf("override not applied: %+v", ps[1].Config())
	}
	if _, err := Build([]string{"craigslist"}, nil); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	all, _ := Build(nil, nil)
	if len(all) != len(DefaultOrder) {
		t.Fatalf("default build = %d providers", len(all))
	}
}
