// Package export writes scored properties as tables, CSV/TSV, JSON or
// Markdown, and reads the CSV layout back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"
	"github.com/yourorg/lead-scout/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

// ParseFormat accepts the format names plus a few aliases. Unknown names are
// an error.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType is the MIME type an HTTP download of f should carry.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatTable:
		return "text/plain; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f Format) Extension() string {
	if f == FormatTable {
		return "txt"
	}
	return string(f)
}

type WriteOptions struct {
	ColorEnabled bool
}

const factorSep = "; "

func WriteProperties(w io.Writer, props []models.Property, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, props)
	case FormatCSV:
		return writeCSV(w, props, ',')
	case FormatTSV:
		return writeCSV(w, props, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, props)
	default:
		return writeTable(w, props, opts)
	}
}

func writeJSON(w io.Writer, props []models.Property) error {
	if props == nil {
		props = []models.Property{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(props)
}

func writeCSV(w io.Writer, props []models.Property, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range props {
		if err := writer.Write(csvRow(p)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, props []models.Property, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"score", "price", "dom", "drop", "type", "address", "provider"}, "\t"))
	output := termenv.NewOutput(w)
	for _, p := range props {
		fmt.Fprintln(tw, strings.Join(tableRow(p, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, props []models.Property) error {
	if len(props) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, p := range props {
		lines := []string{
			fmt.Sprintf("- **%s** (score %s)", safe(p.Address), optInt(p.MotivationScore, "-")),
			fmt.Sprintf("  Price: $%d", p.Price),
		}
		if p.DaysOnMarket != nil {
			lines = append(lines, fmt.Sprintf("  Days on market: %d", *p.DaysOnMarket))
		}
		if p.PriceDrop > 0 {
			lines = append(lines, fmt.Sprintf("  Price drop: $%d", p.PriceDrop))
		}
		if p.PropertyType != "" {
			lines = append(lines, fmt.Sprintf("  Type: %s", safe(p.PropertyType)))
		}
		if len(p.ScoreFactors) > 0 {
			lines = append(lines, fmt.Sprintf("  Factors: %s", strings.Join(p.ScoreFactors, factorSep)))
		}
		lines = append(lines, fmt.Sprintf("  Provider: %s", safe(p.Provider)))
		if u := safe(p.URL); u != "" {
			lines = append(lines, fmt.Sprintf("  URL: [Open listing](<%s>)", u))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

var csvHeader = []string{
	"id",
	"address",
	"price",
	"beds",
	"baths",
	"sqft",
	"days_on_market",
	"price_drop",
	"estimated_value",
	"motivation_score",
	"score_factors",
	"property_type",
	"provider",
	"url",
}

func csvRow(p models.Property) []string {
	return []string{
		p.ID,
		p.Address,
		strconv.Itoa(p.Price),
		optFloat(p.Beds),
		optFloat(p.Baths),
		optInt(p.Sqft, ""),
		optInt(p.DaysOnMarket, ""),
		strconv.Itoa(p.PriceDrop),
		optInt(p.EstimatedValue, ""),
		optInt(p.MotivationScore, ""),
		strings.Join(p.ScoreFactors, factorSep),
		p.PropertyType,
		p.Provider,
		p.URL,
	}
}

// scoreColor follows the UI bands: hot, warm, everything else.
func scoreColor(score int) string {
	switch {
	case score >= 80:
		return "1"
	case score >= 60:
		return "3"
	default:
		return "2"
	}
}

func tableRow(p models.Property, output *termenv.Output, opts WriteOptions) []string {
	score := optInt(p.MotivationScore, "-")
	if opts.ColorEnabled && p.MotivationScore != nil {
		score = output.String(score).Foreground(output.Color(scoreColor(*p.MotivationScore))).Bold().String()
	}
	drop := "-"
	if p.PriceDrop > 0 {
		drop = strconv.Itoa(p.PriceDrop)
	}
	typ := safe(p.PropertyType)
	if typ == "" {
		typ = "-"
	}
	return []string{
		score,
		strconv.Itoa(p.Price),
		optInt(p.DaysOnMarket, "-"),
		drop,
		typ,
		safe(p.Address),
		safe(p.Provider),
	}
}

func optInt(v *int, empty string) string {
	if v == nil {
		return empty
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}
