package aggregate

import (
	"context"
	"strconv"

	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/rapidapi"
)

// Strategy picks how providers are combined for one location.
type Strategy int

const (
	// FirstHit walks the fallback chain and stops at the first non-empty answer.
	FirstHit Strategy = iota
	// Merge asks every provider and merges the answers.
	Merge
)

// Source produces unscored properties for a filter set.
type Source interface {
	Name() string
	Search(ctx context.Context, f models.SearchFilters, s Strategy) (Result, error)
}

// Live searches the configured providers, once per location.
type Live struct {
	agg        *Aggregator
	configured bool
}

func NewLive(agg *Aggregator, configured bool) *Live {
	return &Live{agg: agg, configured: configured}
}

func (l *Live) Name() string { return "live" }

func (l *Live) Search(ctx context.Context, f models.SearchFilters, s Strategy) (Result, error) {
	if !l.configured {
		return Result{}, ErrNotConfigured
	}
	var out Result
	for _, loc := range f.Locations() {
		var (
			res Result
			err error
		)
		if s == Merge {
			res, err = l.agg.MergeAll(ctx, loc)
		} else {
			res, err = l.agg.Search(ctx, loc)
		}
		out.ProviderErrors = append(out.ProviderErrors, res.ProviderErrors...)
		if err != nil && !IsExhausted(err) {
			return out, err
		}
		out.Properties = append(out.Properties, res.Properties...)
		out.Hits = append(out.Hits, res.Hits...)
	}
	if len(out.Properties) == 0 {
		out.Properties = []models.Property{}
		return out, &ExhaustedError{ProviderErrors: out.ProviderErrors}
	}
	out.Properties = rapidapi.DedupeByAddress(out.Properties)
	return out, nil
}

// Mock serves a fixed set of New Jersey listings. Only the price filters
// apply here; everything else is left to the post-score filters.
type Mock struct{}

func (Mock) Name() string { return "mock" }

func (Mock) Search(_ context.Context, f models.SearchFilters, _ Strategy) (Result, error) {
	out := make([]models.Property, 0, len(sampleProperties))
	for _, p := range sampleProperties {
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, clone(p))
	}
	res := Result{Properties: out, Mock: true}
	if len(out) == 0 {
		return res, &ExhaustedError{ProviderErrors: []string{SampleProvider + ": no properties returned"}}
	}
	res.Hits = []Hit{{Filters: f, Provider: SampleProvider, Count: len(out)}}
	return res, nil
}

const SampleProvider = "Sample Data"

func clone(p models.Property) models.Property {
	out := p
	if p.ScoreFactors != nil {
		out.ScoreFactors = append([]string(nil), p.ScoreFactors...)
	}
	return out
}

func sample(id int, address string, kind models.PropertyType, price, drop int, beds, baths float64, sqft, dom, year int) models.Property {
	return models.Property{
		ID:           "sample:" + strconv.Itoa(id),
		Address:      address,
		Price:        price,
		Beds:         models.Float(beds),
		Baths:        models.Float(baths),
		Sqft:         models.Int(sqft),
		YearBuilt:    models.Int(year),
		PropertyType: string(kind),
		DaysOnMarket: models.Int(dom),
		PriceDrop:    drop,
		URL:          "https://example.com/property" + strconv.Itoa(id),
		Provider:     SampleProvider,
	}
}

var sampleProperties = []models.Property{
	sample(1, "123 Main St, Jersey City, NJ 07302", models.SingleFamily, 750000, 50000, 3, 2, 1800, 120, 1985),
	sample(2, "456 Park Ave, Hoboken, NJ 07030", models.Condo, 650000, 25000, 2, 2, 1500, 90, 1990),
	sample(3, "789 Grove St, Jersey City, NJ 07302", models.MultiFamily, 899000, 75000, 4, 3, 2200, 150, 1982),
	sample(4, "321 Washington St, Hoboken, NJ 07030", models.Condo, 550000, 0, 1, 1, 900, 45, 2000),
	sample(5, "159 Newark Ave, Jersey City, NJ 07302", models.SingleFamily, 1200000, 100000, 5, 4, 3000, 180, 1975),
}
