package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/yourorg/lead-scout/internal/models"
)

func sampleProps() []models.Property {
	return []models.Property{
		{
			ID:              "redfin:1",
			Address:         "123 Main St, Jersey City, NJ 07302",
			Price:           450000,
			Beds:            models.Float(3),
			Baths:           models.Float(2.5),
			Sqft:            models.Int(1800),
			DaysOnMarket:    models.Int(120),
			PriceDrop:       25000,
			EstimatedValue:  models.Int(520000),
			MotivationScore: models.Int(95),
			ScoreFactors:    []string{"Extended time on market", "Recent price reduction"},
			PropertyType:    "single-family",
			Provider:        "Redfin",
			URL:             "https://www.redfin.com/NJ/Jersey-City/123-Main-St/home/1",
		},
		{
			ID:       "zillow:abc",
			Address:  "9 \"Quoted\" Ave, Hoboken, NJ 07030",
			Price:    300000,
			Provider: "Zillow",
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, sampleProps(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != strings.Join(csvHeader, ",") {
		t.Fatalf("header: got %q", first)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := sampleProps()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestCSVNullCellsAreEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, sampleProps()[1:], FormatCSV, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], ",300000,,,,,0,,,,,Zillow,") {
		t.Fatalf("row: got %q", lines[1])
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("id,address\n1,x\n")); err == nil {
		t.Fatal("expected error for missing price column")
	}
}

func TestTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, sampleProps(), FormatTSV, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "id\taddress\tprice\t") {
		t.Fatalf("got %q", buf.String()[:40])
	}
}

func TestJSONEmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, nil, FormatJSON, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	var got []models.Property
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty array", got)
	}
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, sampleProps(), FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"**123 Main St, Jersey City, NJ 07302** (score 95)", "Price drop: $25000", "[Open listing]"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	buf.Reset()
	_ = WriteProperties(&buf, nil, FormatMarkdown, WriteOptions{})
	if strings.TrimSpace(buf.String()) != "No results." {
		t.Fatalf("got %q", buf.String())
	}
}

func TestTableWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteProperties(&buf, sampleProps(), FormatTable, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatal("unexpected escape sequence with colour disabled")
	}
	if !strings.HasPrefix(buf.String(), "score") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatTable, "CSV": FormatCSV, "markdown": FormatMarkdown, "tsv": FormatTSV, "json": FormatJSON}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}
