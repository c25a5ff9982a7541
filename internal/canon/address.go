package canon

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	rePunct    = regexp.MustCompile(`[^A-Za-z0-9\s]`)
	reStateZip = regexp.MustCompile(`^([A-Za-z]{2}|[A-Za-z][A-Za-z ]+?)\s+(\d{5})(?:-\d{4})?$`)
)

// Canonicalize normalizes address components and computes a stable property key.
// Unit/suite designators are dropped so every unit of a parcel shares one key.
func Canonicalize(line1, city, state, zip string) (normLine1, normCity, normState, normZip, propertyKey string) {
	n1 := strings.TrimSpace(strings.ToUpper(line1))
	n1 = stripUnit(n1)
	n1 = rePunct.ReplaceAllString(n1, " ")
	n1 = abbreviateSuffix(" " + n1 + " ")
	n1 = collapseSpaces(n1)

	c := collapseSpaces(rePunct.ReplaceAllString(strings.ToUpper(strings.TrimSpace(city)), " "))
	st := strings.ToUpper(strings.TrimSpace(state))
	if len(st) > 2 {
		st = stateAbbrev(st)
	}
	z := trimZIP(zip)

	if n1 == "" && c == "" && st == "" && z == "" {
		return "", "", "", "", ""
	}
	key := strings.ToLower(n1 + "|" + c + "|" + st + "|" + z)
	return n1, c, st, z, key
}

// SplitLine breaks a one-line address ("123 Main St, Jersey City, NJ 07302")
// into its components. Missing trailing parts come back empty.
func SplitLine(address string) (line1, city, state, zip string) {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 0:
		return "", "", "", ""
	case 1:
		return parts[0], "", "", ""
	case 2:
		if st, z, ok := splitStateZip(parts[1]); ok {
			return parts[0], "", st, z
		}
		return parts[0], parts[1], "", ""
	}
	last := parts[len(parts)-1]
	line1 = strings.Join(parts[:len(parts)-2], ", ")
	city = parts[len(parts)-2]
	if st, z, ok := splitStateZip(last); ok {
		return line1, city, st, z
	}
	return line1, city, last, ""
}

// Key returns the canonical property key of a one-line address, or "".
func Key(address string) string {
	_, _, _, _, key := Canonicalize(SplitLine(address))
	return key
}

// ShortHash is a 12 hex char digest of the canonical key, used where a provider
// gives no identifier.
func ShortHash(address string) string {
	key := Key(address)
	if key == "" {
		return ""
	}
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

func splitStateZip(s string) (string, string, bool) {
	m := reStateZip.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimZIP(z string) string {
	z = strings.TrimSpace(z)
	if len(z) >= 5 {
		return z[:5]
	}
	return z
}

func stripUnit(s string) string {
	toks := []string{" APT ", " UNIT ", " STE ", " SUITE ", " #"}
	up := " " + s + " "
	for _, t := range toks {
		if i := strings.Index(up, t); i >= 0 {
			return strings.TrimSpace(up[:i])
		}
	}
	return strings.TrimSpace(s)
}

var suffixes = []struct{ long, short string }{
	{" STREET ", " ST "},
	{" ROAD ", " RD "},
	{" AVENUE ", " AVE "},
	{" BOULEVARD ", " BLVD "},
	{" DRIVE ", " DR "},
	{" LANE ", " LN "},
	{" COURT ", " CT "},
	{" CIRCLE ", " CIR "},
	{" TERRACE ", " TER "},
	{" PLACE ", " PL "},
	{" PARKWAY ", " PKWY "},
	{" HIGHWAY ", " HWY "},
}

// abbreviateSuffix applies USPS street suffixes. s must be space padded.
func abbreviateSuffix(s string) string {
	for _, sfx := range suffixes {
		s = strings.ReplaceAll(s, sfx.long, sfx.short)
	}
	return s
}

var states = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR", "CALIFORNIA": "CA", "COLORADO": "CO",
	"CONNECTICUT": "CT", "DELAWARE": "DE", "DISTRICT OF COLUMBIA": "DC", "FLORIDA": "FL", "GEORGIA": "GA",
	"HAWAII": "HI", "IDAHO": "ID", "ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA", "KANSAS": "KS",
	"KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD", "MASSACHUSETTS": "MA",
	"MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS", "MISSOURI": "MO", "MONTANA": "MT",
	"NEBRASKA": "NE", "NEVADA": "NV", "NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM",
	"NEW YORK": "NY", "NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK",
	"OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC", "SOUTH DAKOTA": "SD",
	"TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT", "VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA",
	"WEST VIRGINIA": "WV", "WISCONSIN": "WI", "WYOMING": "WY",
}

func stateAbbrev(s string) string {
	if v, ok := states[s]; ok {
		return v
	}
	return s
}
