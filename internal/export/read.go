package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yourorg/lead-scout/internal/models"
)

// ReadCSV parses the layout WriteProperties produces for FormatCSV. Columns
// are matched by header name so reordered files still load.
func ReadCSV(r io.Reader) ([]models.Property, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range []string{"id", "address", "price"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", name)
		}
	}

	var out []models.Property
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		p, err := parseRow(get)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, p)
	}
}

func parseRow(get func(string) string) (models.Property, error) {
	p := models.Property{
		ID:           get("id"),
		Address:      get("address"),
		PropertyType: get("property_type"),
		Provider:     get("provider"),
		URL:          get("url"),
	}
	var err error
	if p.Price, err = atoi(get("price")); err != nil {
		return p, fmt.Errorf("price: %w", err)
	}
	if p.PriceDrop, err = atoi(get("price_drop")); err != nil {
		return p, fmt.Errorf("price_drop: %w", err)
	}
	for name, dst := range map[string]**int{
		"sqft":             &p.Sqft,
		"days_on_market":   &p.DaysOnMarket,
		"estimated_value":  &p.EstimatedValue,
		"motivation_score": &p.MotivationScore,
	} {
		if *dst, err = optAtoi(get(name)); err != nil {
			return p, fmt.Errorf("%s: %w", name, err)
		}
	}
	if p.Beds, err = optParseFloat(get("beds")); err != nil {
		return p, fmt.Errorf("beds: %w", err)
	}
	if p.Baths, err = optParseFloat(get("baths")); err != nil {
		return p, fmt.Errorf("baths: %w", err)
	}
	if f := get("score_factors"); f != "" {
		p.ScoreFactors = strings.Split(f, factorSep)
	}
	return p, nil
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func optAtoi(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optParseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
