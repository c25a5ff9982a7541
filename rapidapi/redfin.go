package rapidapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

type redfin struct{ base }

var redfinTypes = map[models.PropertyType]string{
	models.SingleFamily: "SINGLE_FAMILY",
	models.MultiFamily:  "MULTI_FAMILY",
	models.Condo:        "CONDO",
}

func (p redfin) BuildRequest(f models.SearchFilters, pageSize int) Request {
	q := url.Values{}
	q.Set("location", f.Location())
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("offset", strconv.Itoa(offset(f, pageSize)))
	q.Set("sort_by", "price")
	setInt(q, "min_price", f.MinPrice)
	setInt(q, "max_price", f.MaxPrice)
	if t, ok := redfinTypes[f.PropertyType]; ok {
		q.Set("property_type", t)
	}
	return Request{Path: "/properties/search", Query: q}
}

func (p redfin) ParseResponse(raw []byte, now time.Time) []models.Property {
	items := results(raw, "data")
	out := make([]models.Property, 0, len(items))
	for i, r := range items {
		addr := str(r, "location.address", "address")
		if addr == "" {
			addr = joinAddress(str(r, "streetAddress", "streetLine"), str(r, "city"), str(r, "state"), str(r, "zipcode", "zip"))
		}
		out = append(out, models.Property{
			ID:             propertyID(p.cfg.Slug, str(r, "propertyId", "id", "listingId"), addr, i),
			Address:        addr,
			Price:          price(r, "price", "price.value"),
			Beds:           num(r, "beds"),
			Baths:          num(r, "baths"),
			Sqft:           integer(r, "sqft", "sqFt.value"),
			LotSize:        integer(r, "lotSize", "lotSize.value"),
			YearBuilt:      integer(r, "yearBuilt", "yearBuilt.value"),
			PropertyType:   propertyType(r, "propertyType", "uiPropertyType"),
			DaysOnMarket:   daysOnMarket(r, now, []string{"daysOnMarket", "dom", "dom.value"}, "listDate", "list_date", "listingAddedDate"),
			PriceDrop:      price(r, "priceDrop", "priceChange.amount"),
			EstimatedValue: optPrice(r, "estimatedValue", "avm.value"),
			LastSoldPrice:  optPrice(r, "lastSoldPrice", "lastSalePrice"),
			LastSoldDate:   dateString(r, "lastSoldDate", "lastSaleDate"),
			URL:            absoluteURL(str(r, "url"), "https://www.redfin.com"),
			ImageURL:       str(r, "imageUrl", "photos.0.url", "photos.0"),
			Provider:       p.cfg.Name,
		})
	}
	return out
}
