package rapidapi

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yourorg/lead-scout/internal/canon"
	"github.com/yourorg/lead-scout/internal/models"
)

var (
	reNonDigit  = regexp.MustCompile(`[^0-9]`)
	reCentsTail = regexp.MustCompile(`\.\d{1,2}\s*$`)
)

// results returns the elements of the array at path, or nil when the body is
// not JSON or the path is missing or not an array.
func results(raw []byte, path string) []gjson.Result {
	if !gjson.ValidBytes(raw) {
		return nil
	}
	arr := gjson.GetBytes(raw, path)
	if !arr.IsArray() {
		return nil
	}
	return arr.Array()
}

// str returns the first path holding a string or number, as text.
func str(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		switch v.Type {
		case gjson.String:
			if s := strings.TrimSpace(v.Str); s != "" {
				return s
			}
		case gjson.Number:
			return v.Raw
		}
	}
	return ""
}

// num returns the first path holding a non-negative number, accepting numeric
// strings like "1,800".
func num(r gjson.Result, paths ...string) *float64 {
	for _, p := range paths {
		v := r.Get(p)
		var f float64
		switch v.Type {
		case gjson.Number:
			f = v.Num
		case gjson.String:
			s := strings.ReplaceAll(strings.TrimSpace(v.Str), ",", "")
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		return &f
	}
	return nil
}

func integer(r gjson.Result, paths ...string) *int {
	f := num(r, paths...)
	if f == nil {
		return nil
	}
	return models.Int(int(*f))
}

// CoercePrice turns a provider price into whole dollars. Numbers are truncated,
// strings keep only their digits ("$350,000" -> 350000) and anything without
// digits is 0. A trailing cents part ("$350,000.00") is dropped first.
func CoercePrice(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		if v.Num <= 0 || v.Num > 1e12 || math.IsNaN(v.Num) {
			return 0
		}
		return int(v.Num)
	case gjson.String:
		return PriceFromString(v.Str)
	}
	return 0
}

// PriceFromString is the string half of CoercePrice.
func PriceFromString(s string) int {
	s = reCentsTail.ReplaceAllString(s, "")
	digits := reNonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func price(r gjson.Result, paths ...string) int {
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if n := CoercePrice(v); n > 0 {
			return n
		}
	}
	return 0
}

func optPrice(r gjson.Result, paths ...string) *int {
	if n := price(r, paths...); n > 0 {
		return models.Int(n)
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// parseDate accepts the date spellings providers use plus epoch milliseconds.
func parseDate(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.Number:
		if v.Num <= 0 {
			return time.Time{}, false
		}
		if v.Num > 1e11 {
			return time.UnixMilli(int64(v.Num)).UTC(), true
		}
		return time.Unix(int64(v.Num), 0).UTC(), true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// DaysSince is floor((now - listed) / 24h). Listings dated in the future count
// as 0 days.
func DaysSince(listed, now time.Time) int {
	d := int(math.Floor(now.Sub(listed).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// daysOnMarket prefers an explicit day count and falls back to a list date.
func daysOnMarket(r gjson.Result, now time.Time, direct []string, dates ...string) *int {
	if d := integer(r, direct...); d != nil {
		return d
	}
	for _, p := range dates {
		if t, ok := parseDate(r.Get(p)); ok {
			return models.Int(DaysSince(t, now))
		}
	}
	return nil
}

// dateString returns the first parseable date as YYYY-MM-DD. Unparseable text
// is skipped.
func dateString(r gjson.Result, paths ...string) *string {
	for _, p := range paths {
		if t, ok := parseDate(r.Get(p)); ok {
			return models.String(t.Format("2006-01-02"))
		}
	}
	return nil
}

// joinAddress renders "line, city, ST zip" from whichever parts are present.
func joinAddress(line, city, state, zip string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{line, city, strings.TrimSpace(state + " " + zip)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func absoluteURL(href, origin string) string {
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return href
}

func propertyID(slug, rawID, address string, idx int) string {
	if rawID != "" {
		return slug + ":" + rawID
	}
	if h := canon.ShortHash(address); h != "" {
		return slug + ":" + h
	}
	return slug + ":" + strconv.Itoa(idx)
}

func propertyType(r gjson.Result, paths ...string) string {
	raw := str(r, paths...)
	if t := models.ParsePropertyType(raw); t != "" {
		return string(t)
	}
	return raw
}
