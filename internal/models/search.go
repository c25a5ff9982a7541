package models

import (
	"strings"
)

type PropertyType string

const (
	SingleFamily PropertyType = "single-family"
	MultiFamily  PropertyType = "multi-family"
	Condo        PropertyType = "condo"
)

// ParsePropertyType accepts the filter vocabulary plus the spellings providers
// use ("SINGLE_FAMILY", "Single Family Residential", "condos", "Condo/Co-op").
// Unknown values return "".
func ParsePropertyType(raw string) PropertyType {
	k := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(raw))
	switch {
	case k == "":
		return ""
	case strings.HasPrefix(k, "singlefamily"), k == "house", k == "sfr":
		return SingleFamily
	case strings.HasPrefix(k, "multifamily"), strings.HasPrefix(k, "duplex"), strings.HasPrefix(k, "triplex"):
		return MultiFamily
	case strings.HasPrefix(k, "condo"), strings.HasPrefix(k, "coop"), strings.HasPrefix(k, "apartment"):
		return Condo
	}
	return ""
}

// SearchFilters is the immutable input of one search. Optional numbers are nil
// when absent.
type SearchFilters struct {
	ZipCodes           []string     `json:"zipCodes"`
	City               string       `json:"city,omitempty"`
	State              string       `json:"state,omitempty"`
	MinPrice           *int         `json:"minPrice,omitempty"`
	MaxPrice           *int         `json:"maxPrice,omitempty"`
	MaxDaysOnMarket    *int         `json:"maxDaysOnMarket,omitempty"`
	MinMotivationScore *int         `json:"minMotivationScore,omitempty"`
	PropertyType       PropertyType `json:"propertyType,omitempty"`
	Page               int          `json:"page,omitempty"`
}

// HasLocation reports whether a provider call can be meaningful: at least
// one five-digit zip code, or both a city and a state.
func (f SearchFilters) HasLocation() bool {
	for _, z := range f.ZipCodes {
		if IsZipCode(strings.TrimSpace(z)) {
			return true
		}
	}
	return strings.TrimSpace(f.City) != "" && strings.TrimSpace(f.State) != ""
}

// Normalized trims the location fields and drops blank zip codes.
func (f SearchFilters) Normalized() SearchFilters {
	out := f
	out.City = strings.TrimSpace(f.City)
	out.State = strings.TrimSpace(f.State)
	out.ZipCodes = nil
	for _, z := range f.ZipCodes {
		if z = strings.TrimSpace(z); z != "" {
			out.ZipCodes = append(out.ZipCodes, z)
		}
	}
	return out
}

// Zip returns the first zip code, or "".
func (f SearchFilters) Zip() string {
	if len(f.ZipCodes) == 0 {
		return ""
	}
	return f.ZipCodes[0]
}

// Location is the free-text location most providers accept: the zip code when
// present, otherwise "City, ST".
func (f SearchFilters) Location() string {
	if z := f.Zip(); z != "" {
		return z
	}
	if f.City == "" && f.State == "" {
		return ""
	}
	return f.City + ", " + f.State
}

// PageOrFirst clamps Page to >= 1.
func (f SearchFilters) PageOrFirst() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// ForZip narrows the filters to a single zip code.
func (f SearchFilters) ForZip(zip string) SearchFilters {
	out := f
	out.ZipCodes = []string{zip}
	return out
}

// Locations splits the filters into one filter set per location the provider
// chain has to be walked for.
func (f SearchFilters) Locations() []SearchFilters {
	if len(f.ZipCodes) == 0 {
		return []SearchFilters{f}
	}
	out := make([]SearchFilters, 0, len(f.ZipCodes))
	for _, z := range f.ZipCodes {
		out = append(out, f.ForZip(z))
	}
	return out
}

// IsZipCode reports whether s is a five-digit US zip code.
func IsZipCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
