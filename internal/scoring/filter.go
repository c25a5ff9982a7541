package scoring

import "github.com/yourorg/lead-scout/internal/models"

// Filter applies the filters that only make sense after scoring. A property
// with unknown days on market passes the days filter; one whose type cannot
// be recognised fails a type filter.
func Filter(props []models.Property, f models.SearchFilters) []models.Property {
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if keep(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func keep(p models.Property, f models.SearchFilters) bool {
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MaxDaysOnMarket != nil && p.DaysOnMarket != nil && *p.DaysOnMarket > *f.MaxDaysOnMarket {
		return false
	}
	if f.MinMotivationScore != nil {
		if p.MotivationScore == nil || *p.MotivationScore < *f.MinMotivationScore {
			return false
		}
	}
	if f.PropertyType != "" && models.ParsePropertyType(p.PropertyType) != f.PropertyType {
		return false
	}
	return true
}
