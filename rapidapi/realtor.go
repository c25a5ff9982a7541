package rapidapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

type realtor struct{ base }

var realtorTypes = map[models.PropertyType]string{
	models.SingleFamily: "single_family",
	models.MultiFamily:  "multi_family",
	models.Condo:        "condos",
}

func (p realtor) BuildRequest(f models.SearchFilters, pageSize int) Request {
	q := url.Values{}
	q.Set("location", f.Location())
	q.Set("status", "for_sale")
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("offset", strconv.Itoa(offset(f, pageSize)))
	setInt(q, "price_min", f.MinPrice)
	setInt(q, "price_max", f.MaxPrice)
	if t, ok := realtorTypes[f.PropertyType]; ok {
		q.Set("prop_type", t)
	}
	return Request{Path: "/properties/list_v2", Query: q}
}

func (p realtor) ParseResponse(raw []byte, now time.Time) []models.Property {
	items := results(raw, "data.home_search.results")
	out := make([]models.Property, 0, len(items))
	for i, r := range items {
		loc := r.Get("location.address")
		if !loc.Exists() {
			loc = r.Get("address")
		}
		addr := joinAddress(str(loc, "line"), str(loc, "city"), str(loc, "state_code", "state"), str(loc, "postal_code"))
		out = append(out, models.Property{
			ID:             propertyID(p.cfg.Slug, str(r, "property_id", "listing_id"), addr, i),
			Address:        addr,
			Price:          price(r, "list_price", "price"),
			Beds:           num(r, "description.beds", "beds"),
			Baths:          num(r, "description.baths_consolidated", "description.baths", "baths"),
			Sqft:           integer(r, "description.sqft", "building_size.size"),
			LotSize:        integer(r, "description.lot_sqft", "lot_size.size"),
			YearBuilt:      integer(r, "description.year_built", "year_built"),
			PropertyType:   propertyType(r, "description.type", "prop_type"),
			DaysOnMarket:   daysOnMarket(r, now, []string{"days_on_market"}, "list_date", "listDate"),
			PriceDrop:      price(r, "price_reduced_amount"),
			EstimatedValue: optPrice(r, "current_estimates.0.estimate", "estimate.estimate"),
			LastSoldPrice:  optPrice(r, "last_sold_price", "description.sold_price"),
			LastSoldDate:   dateString(r, "last_sold_date", "description.sold_date"),
			URL:            absoluteURL(str(r, "href", "rdc_web_url", "permalink"), "https://www.realtor.com"),
			ImageURL:       upgradePhotoURL(str(r, "primary_photo.href", "photos.0.href")),
			Provider:       p.cfg.Name,
		})
	}
	return out
}
