package advisor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

const (
	offerRatio      = 0.85
	baseRepairs     = 20000.0
	arvRatio        = 1.30
	rentRatio       = 0.008
	expenseRatio    = 0.5
	closingDays     = 14
	templateSource  = "template"
	defaultYearsOld = 30
)

// Template answers without any remote call. Its numbers are rules of thumb,
// not appraisals.
type Template struct {
	// Now is used for property age; zero means time.Now.
	Now func() time.Time
}

func (t Template) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// repairMultiplier scales the base repair budget by building age.
func repairMultiplier(yearBuilt *int, now time.Time) float64 {
	age := defaultYearsOld
	if yearBuilt != nil && *yearBuilt > 0 {
		age = now.Year() - *yearBuilt
	}
	switch {
	case age > 50:
		return 2.0
	case age > 30:
		return 1.5
	case age > 10:
		return 1.0
	default:
		return 0.5
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (t Template) AnalyzeROI(_ context.Context, p models.Property) (models.ROIBreakdown, error) {
	roi := models.ROIBreakdown{PurchasePrice: p.Price, Source: templateSource}
	if p.Price <= 0 {
		roi.Summary = "No asking price is available, so no estimate could be made."
		roi.Recommendations = "Confirm the asking price with the listing agent before analysing this property."
		return roi, nil
	}
	price := float64(p.Price)
	offer := price * offerRatio
	repairs := baseRepairs * repairMultiplier(p.YearBuilt, t.now())
	arv := price * arvRatio
	if p.EstimatedValue != nil && float64(*p.EstimatedValue) > arv {
		arv = float64(*p.EstimatedValue)
	}
	rent := price * rentRatio
	expenses := rent * expenseRatio
	cashflow := rent - expenses
	invested := offer + repairs
	capRate := cashflow * 12 / invested * 100
	profit := arv - invested

	roi.SuggestedOffer = models.Float(round2(offer))
	roi.EstimatedRepairs = models.Float(round2(repairs))
	roi.RehabCosts = models.Float(round2(repairs))
	roi.AfterRepairValue = models.Float(round2(arv))
	roi.RentalIncome = models.Float(round2(rent))
	roi.Expenses = models.Float(round2(expenses))
	roi.Cashflow = models.Float(round2(cashflow))
	roi.CapRate = models.Float(round2(capRate))
	roi.ROI = models.Float(round2(profit / invested * 100))
	roi.Summary = fmt.Sprintf("At an offer of $%s plus about $%s in repairs, the property could be worth $%s after renovation.",
		money(offer), money(repairs), money(arv))
	if profit > 0 {
		roi.Recommendations = "Verify repair scope with an inspection and confirm comparable sales before making an offer."
	} else {
		roi.Recommendations = "The numbers are thin at this price. Negotiate further or pass."
	}
	return roi, nil
}

func (t Template) GenerateOutreachMessage(_ context.Context, p models.Property) (string, error) {
	var b strings.Builder
	b.WriteString("Dear Property Owner,\n\n")
	fmt.Fprintf(&b, "I noticed your property at %s", orUnknown(p.Address))
	if p.DaysOnMarket != nil && *p.DaysOnMarket > 0 {
		fmt.Fprintf(&b, " has been on the market for %d days", *p.DaysOnMarket)
	}
	b.WriteString(".")
	if p.PriceDrop > 0 {
		fmt.Fprintf(&b, " I also saw the recent price reduction of $%s.", money(float64(p.PriceDrop)))
	}
	b.WriteString("\n\n")
	if p.Price > 0 {
		fmt.Fprintf(&b, "I'm a local real estate investor and I'd like to make you a quick, hassle-free offer. "+
			"Based on the asking price of $%s, I can offer $%s in cash and close in as little as %d days.\n\n",
			money(float64(p.Price)), money(float64(p.Price)*offerRatio), closingDays)
	} else {
		fmt.Fprintf(&b, "I'm a local real estate investor and I'd like to make you a quick, hassle-free cash offer "+
			"with a closing in as little as %d days.\n\n", closingDays)
	}
	b.WriteString("Working with me means:\n")
	b.WriteString("- No repairs or cleaning needed\n")
	b.WriteString("- No agent commissions or closing costs\n")
	b.WriteString("- A closing date that works for you\n\n")
	b.WriteString("If you're open to a conversation, please reply or give me a call at your convenience.\n\n")
	b.WriteString("Best regards,\n[Your Name]\n\n")
	b.WriteString("P.S. Even if the timing isn't right today, I'm happy to talk whenever you're ready.")
	return b.String(), nil
}

// money formats whole dollars with thousands separators.
func money(v float64) string {
	s := fmt.Sprintf("%d", int64(math.Round(v)))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
