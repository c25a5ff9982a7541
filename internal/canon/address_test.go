package canon

import "testing"

func TestCanonicalize(t *testing.T) {
	line1, city, st, zip, key := Canonicalize("123 Main Street Apt 4", "Jersey City", "New Jersey", "07302-1234")
	if line1 != "123 MAIN ST" {
		t.Errorf("line1 = %q, want %q", line1, "123 MAIN ST")
	}
	if city != "JERSEY CITY" || st != "NJ" || zip != "07302" {
		t.Errorf("got city=%q state=%q zip=%q", city, st, zip)
	}
	if key != "123 main st|jersey city|nj|07302" {
		t.Errorf("key = %q", key)
	}
}

func TestCanonicalizeEmpty(t *testing.T) {
	if _, _, _, _, key := Canonicalize("", " ", "", ""); key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestSplitLine(t *testing.T) {
	cases := []struct {
		in                     string
		line, city, state, zip string
	}{
		{"123 Main St, Jersey City, NJ 07302", "123 Main St", "Jersey City", "NJ", "07302"},
		{"Unit 5, 1 River Rd, Hoboken, NJ 07030", "Unit 5, 1 River Rd", "Hoboken", "NJ", "07030"},
		{"55 Water St, NY 10041", "55 Water St", "", "NY", "10041"},
		{"55 Water St", "55 Water St", "", "", ""},
	}
	for _, tc := range cases {
		line, city, state, zip := SplitLine(tc.in)
		if line != tc.line || city != tc.city || state != tc.state || zip != tc.zip {
			t.Errorf("SplitLine(%q) = %q,%q,%q,%q", tc.in, line, city, state, zip)
		}
	}
}

func TestKeyStableAcrossSpellings(t *testing.T) {
	a := Key("123 Main Street, Jersey City, NJ 07302")
	b := Key("123 MAIN ST., Jersey City, New Jersey 07302")
	if a == "" || a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if ShortHash("123 Main Street, Jersey City, NJ 07302") == "" {
		t.Fatalf("expected hash")
	}
	if ShortHash("") != "" {
		t.Fatalf("expected empty hash for empty address")
	}
}
