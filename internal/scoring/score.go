// Package scoring estimates how motivated a seller is from listing signals.
//
// Every band is an open lower bound: a value sitting exactly on a threshold
// earns the lower tier (exactly 90 days is +15, exactly a 10% drop is +15).
// The below-market and age bonuses are additive.
package scoring

import "github.com/yourorg/lead-scout/internal/models"

const (
	Base = 50

	FactorLongOnMarket     = "Extended time on market"
	FactorMarketDuration   = "Significant market duration"
	FactorModerateDuration = "Moderate time on market"
	FactorBigDrop          = "Significant price reduction"
	FactorDrop             = "Recent price reduction"
	FactorSmallDrop        = "Minor price reduction"
	FactorWellBelowMarket  = "Priced well below market value"
	FactorBelowMarket      = "Below market value"
	FactorSlightlyBelow    = "Slightly below market value"
	FactorOlderProperty    = "Older property"
)

// Score returns a 0..100 motivation score and the labels of every rule that
// contributed, in evaluation order.
func Score(p models.Property) (int, []string) {
	score := Base
	factors := make([]string, 0, 4)
	add := func(bonus int, label string) {
		if bonus > 0 {
			score += bonus
			factors = append(factors, label)
		}
	}

	if p.DaysOnMarket != nil {
		add(daysBonus(*p.DaysOnMarket))
	}
	if p.PriceDrop > 0 && p.Price > 0 {
		add(dropBonus(float64(p.PriceDrop) * 100 / float64(p.Price)))
	}
	if p.EstimatedValue != nil && *p.EstimatedValue > 0 && p.Price > 0 && p.Price < *p.EstimatedValue {
		est := float64(*p.EstimatedValue)
		add(belowMarketBonus((est - float64(p.Price)) * 100 / est))
	}
	if p.YearBuilt != nil && *p.YearBuilt > 0 && *p.YearBuilt < 1980 {
		add(10, FactorOlderProperty)
	}

	return clamp(score), factors
}

func daysBonus(days int) (int, string) {
	switch {
	case days > 90:
		return 20, FactorLongOnMarket
	case days > 60:
		return 15, FactorMarketDuration
	case days > 30:
		return 10, FactorModerateDuration
	}
	return 0, ""
}

func dropBonus(pct float64) (int, string) {
	switch {
	case pct > 10:
		return 20, FactorBigDrop
	case pct > 5:
		return 15, FactorDrop
	case pct > 0:
		return 10, FactorSmallDrop
	}
	return 0, ""
}

func belowMarketBonus(pct float64) (int, string) {
	switch {
	case pct > 15:
		return 15, FactorWellBelowMarket
	case pct > 10:
		return 10, FactorBelowMarket
	case pct > 5:
		return 5, FactorSlightlyBelow
	}
	return 0, ""
}

func clamp(v int) int {
	return min(100, max(0, v))
}

// Apply scores every property, returning new values; the input is not
// modified.
func Apply(props []models.Property) []models.Property {
	out := make([]models.Property, len(props))
	for i, p := range props {
		score, factors := Score(p)
		p.MotivationScore = models.Int(score)
		p.ScoreFactors = factors
		out[i] = p
	}
	return out
}
