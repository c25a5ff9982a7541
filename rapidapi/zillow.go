package rapidapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yourorg/lead-scout/internal/models"
)

type zillow struct{ base }

var zillowTypes = map[models.PropertyType]string{
	models.SingleFamily: "Houses",
	models.MultiFamily:  "Multi-family",
	models.Condo:        "Condos",
}

func (p zillow) BuildRequest(f models.SearchFilters, _ int) Request {
	q := url.Values{}
	q.Set("location", f.Location())
	q.Set("status_type", "ForSale")
	q.Set("page", strconv.Itoa(f.PageOrFirst()))
	setInt(q, "minPrice", f.MinPrice)
	setInt(q, "maxPrice", f.MaxPrice)
	if t, ok := zillowTypes[f.PropertyType]; ok {
		q.Set("home_type", t)
	}
	return Request{Path: "/properties/search", Query: q}
}

func (p zillow) ParseResponse(raw []byte, now time.Time) []models.Property {
	items := results(raw, "properties")
	out := make([]models.Property, 0, len(items))
	for i, r := range items {
		addr := joinAddress(str(r, "address", "streetAddress"), str(r, "city"), str(r, "state"), str(r, "zipcode"))
		// a cut comes through as a negative priceChange
		drop := 0
		if v := r.Get("priceChange"); v.Type == gjson.Number && v.Num < 0 {
			drop = int(-v.Num)
		}
		out = append(out, models.Property{
			ID:             propertyID(p.cfg.Slug, str(r, "zpid"), addr, i),
			Address:        addr,
			Price:          price(r, "price", "unformattedPrice"),
			Beds:           num(r, "bedrooms", "beds"),
			Baths:          num(r, "bathrooms", "baths"),
			Sqft:           integer(r, "livingArea", "sqft"),
			LotSize:        integer(r, "lotAreaValue", "lotSize"),
			YearBuilt:      integer(r, "yearBuilt"),
			PropertyType:   propertyType(r, "propertyType", "homeType"),
			DaysOnMarket:   daysOnMarket(r, now, []string{"daysOnZillow", "daysOnMarket"}, "listDate", "list_date"),
			PriceDrop:      drop,
			EstimatedValue: optPrice(r, "zestimate"),
			LastSoldPrice:  optPrice(r, "lastSoldPrice"),
			LastSoldDate:   dateString(r, "dateSold", "lastSoldDate"),
			URL:            absoluteURL(str(r, "detailUrl", "url"), "https://www.zillow.com"),
			ImageURL:       str(r, "imgSrc", "image"),
			Provider:       p.cfg.Name,
		})
	}
	return out
}
