package rapidapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

type streetEasy struct{ base }

func (p streetEasy) BuildRequest(f models.SearchFilters, _ int) Request {
	q := url.Values{}
	if z := f.Zip(); z != "" {
		q.Set("zip", z)
	} else {
		q.Set("location", f.Location())
	}
	q.Set("page", strconv.Itoa(f.PageOrFirst()))
	setInt(q, "min_price", f.MinPrice)
	setInt(q, "max_price", f.MaxPrice)
	return Request{Path: "/properties/search", Query: q}
}

func (p streetEasy) ParseResponse(raw []byte, now time.Time) []models.Property {
	items := results(raw, "data")
	out := make([]models.Property, 0, len(items))
	for i, r := range items {
		addr := str(r, "address")
		if addr == "" {
			addr = joinAddress(str(r, "street"), str(r, "city", "neighborhood"), str(r, "state"), str(r, "zip", "zipcode"))
		}
		out = append(out, models.Property{
			ID:           propertyID(p.cfg.Slug, str(r, "id", "listing_id"), addr, i),
			Address:      addr,
			Price:        price(r, "price"),
			Beds:         num(r, "bedrooms", "beds"),
			Baths:        num(r, "bathrooms", "baths"),
			Sqft:         integer(r, "floorspace", "size_sqft", "sqft"),
			YearBuilt:    integer(r, "year_built"),
			PropertyType: propertyType(r, "property_type", "type"),
			DaysOnMarket: daysOnMarket(r, now, []string{"days_on_market"}, "listed_at", "list_date"),
			PriceDrop:    price(r, "price_delta", "price_reduction"),
			URL:          absoluteURL(str(r, "url"), "https://streeteasy.com"),
			ImageURL:     str(r, "image_url", "photos.0"),
			Provider:     p.cfg.Name,
		})
	}
	return out
}
