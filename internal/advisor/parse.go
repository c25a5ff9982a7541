package advisor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yourorg/lead-scout/internal/models"
)

var (
	reSummary         = regexp.MustCompile(`(?is)\bsummary[^:\n]*[:\s]+(.*?)(?:\n\s*\n|\n\s*\d+\.|$)`)
	reRecommendations = regexp.MustCompile(`(?is)\brecommendations[:\s]+(.*?)(?:\n\s*\n|$)`)
	numberPatterns    = map[string]*regexp.Regexp{}
)

// labels in the order the prompt asks for them
var roiLabels = []string{
	"estimated repairs",
	"rehab costs",
	"after repair value",
	"potential monthly rental income",
	"estimated monthly expenses",
	"monthly cashflow",
	"cap rate",
	"roi",
}

func init() {
	for _, l := range roiLabels {
		numberPatterns[l] = numberPattern(l)
	}
}

// numberPattern matches label as whole words so "roi" does not fire inside
// "detroit".
func numberPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(label) + `\b[^\d\n]*(\d[\d,]*(?:\.\d+)?)`)
}

// ExtractNumber finds the first number following label on the same line,
// matching case-insensitively. Thousands separators are tolerated.
func ExtractNumber(text, label string) *float64 {
	label = strings.ToLower(label)
	re, ok := numberPatterns[label]
	if !ok {
		re = numberPattern(label)
	}
	m := re.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

func ExtractSummary(text string) string {
	if m := reSummary.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func ExtractRecommendations(text string) string {
	if m := reRecommendations.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ParseROI reads a free-text analysis. Anything it cannot find stays nil.
func ParseROI(text string, p models.Property) models.ROIBreakdown {
	return models.ROIBreakdown{
		PurchasePrice:    p.Price,
		EstimatedRepairs: ExtractNumber(text, "estimated repairs"),
		RehabCosts:       ExtractNumber(text, "rehab costs"),
		AfterRepairValue: ExtractNumber(text, "after repair value"),
		RentalIncome:     ExtractNumber(text, "potential monthly rental income"),
		Expenses:         ExtractNumber(text, "estimated monthly expenses"),
		Cashflow:         ExtractNumber(text, "monthly cashflow"),
		CapRate:          ExtractNumber(text, "cap rate"),
		ROI:              ExtractNumber(text, "roi"),
		Summary:          ExtractSummary(text),
		Recommendations:  ExtractRecommendations(text),
	}
}
