package rapidapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

// loopNet lists commercial property; beds and baths are never reported.
type loopNet struct{ base }

func (p loopNet) BuildRequest(f models.SearchFilters, _ int) Request {
	q := url.Values{}
	q.Set("location", f.Location())
	q.Set("page", strconv.Itoa(f.PageOrFirst()))
	setInt(q, "min_price", f.MinPrice)
	setInt(q, "max_price", f.MaxPrice)
	return Request{Path: "/properties/search", Query: q}
}

func (p loopNet) ParseResponse(raw []byte, now time.Time) []models.Property {
	items := results(raw, "listings")
	out := make([]models.Property, 0, len(items))
	for i, r := range items {
		addr := joinAddress(str(r, "address"), str(r, "city"), str(r, "state"), str(r, "zip", "zipcode"))
		out = append(out, models.Property{
			ID:           propertyID(p.cfg.Slug, str(r, "listing_id", "id"), addr, i),
			Address:      addr,
			Price:        price(r, "price", "asking_price"),
			Sqft:         integer(r, "building_size", "sqft"),
			LotSize:      integer(r, "lot_size"),
			YearBuilt:    integer(r, "year_built"),
			PropertyType: propertyType(r, "property_type"),
			DaysOnMarket: daysOnMarket(r, now, []string{"days_on_market"}, "listed_date", "list_date"),
			URL:          absoluteURL(str(r, "listing_url", "url"), "https://www.loopnet.com"),
			ImageURL:     str(r, "photos.0.url", "photos.0", "image_url"),
			Provider:     p.cfg.Name,
		})
	}
	return out
}
