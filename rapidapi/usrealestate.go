package rapidapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

type usRealEstate struct{ base }

func (p usRealEstate) BuildRequest(f models.SearchFilters, pageSize int) Request {
	q := url.Values{}
	if z := f.Zip(); z != "" {
		q.Set("postal_code", z)
	} else {
		q.Set("city", f.City)
		q.Set("state_code", f.State)
	}
	q.Set("status", "for_sale")
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(f.PageOrFirst()))
	setInt(q, "price_min", f.MinPrice)
	setInt(q, "price_max", f.MaxPrice)
	return Request{Path: "/properties/list", Query: q}
}

func (p usRealEstate) ParseResponse(raw []byte, now time.Time) []models.Property {
	items := results(raw, "properties")
	out := make([]models.Property, 0, len(items))
	for i, r := range items {
		addr := joinAddress(
			str(r, "address.line", "location.address.line"),
			str(r, "address.city", "location.address.city"),
			str(r, "address.state_code", "address.state", "location.address.state_code"),
			str(r, "address.postal_code", "location.address.postal_code"),
		)
		out = append(out, models.Property{
			ID:             propertyID(p.cfg.Slug, str(r, "property_id", "listing_id"), addr, i),
			Address:        addr,
			Price:          price(r, "list_price", "price"),
			Beds:           num(r, "description.beds", "beds"),
			Baths:          num(r, "description.baths", "baths"),
			Sqft:           integer(r, "description.sqft", "sqft"),
			LotSize:        integer(r, "description.lot_sqft", "lot_sqft"),
			YearBuilt:      integer(r, "description.year_built", "year_built"),
			PropertyType:   propertyType(r, "description.type", "prop_type"),
			DaysOnMarket:   daysOnMarket(r, now, []string{"days_on_market"}, "list_date", "listDate"),
			PriceDrop:      price(r, "price_reduced_amount"),
			EstimatedValue: optPrice(r, "estimate.estimate", "current_estimates.0.estimate"),
			LastSoldPrice:  optPrice(r, "last_sold_price"),
			LastSoldDate:   dateString(r, "last_sold_date"),
			URL:            absoluteURL(str(r, "rdc_web_url", "href"), "https://www.realtor.com"),
			ImageURL:       str(r, "primary_photo.href", "photos.0.href"),
			Provider:       p.cfg.Name,
		})
	}
	return out
}
