package valuation

import "math"

// Confidence is a heuristic 0-100 score, not a statistical interval. Each
// method starts from its own base value, subtracts penalties for missing
// table data and extreme inputs, and clamps into a method-specific band.

func marketConfidence(basePriceHit bool, comprehensive float64, ageYears int) int {
	score := 92.0
	if !basePriceHit {
		score -= 10
	}
	deviation := math.Abs(comprehensive - 1.0)
	switch {
	case deviation > 0.3:
		score -= 10
	case deviation > 0.2:
		score -= 5
	}
	if ageYears > 30 {
		score -= 5
	}
	return clampConfidence(score, 65, 95)
}

// incomeConfidence falls as the capitalization rate rises: a higher cap rate
// prices in more market uncertainty.
func incomeConfidence(capRate float64) int {
	score := 88.0 - (capRate-3.5)*4
	return clampConfidence(score, 60, 90)
}

// costConfidence falls monotonically with building age.
func costConfidence(ageYears int, depreciationCapped bool) int {
	score := 90.0 - float64(ageYears)*0.5
	if depreciationCapped {
		score -= 3
	}
	return clampConfidence(score, 62, 92)
}

func combinedConfidence(w Weights, market, income, cost int) int {
	score := w.Market*float64(market) + w.Income*float64(income) + w.Cost*float64(cost)
	return clampConfidence(score, 65, 98)
}

func clampConfidence(score float64, floor, ceiling int) int {
	c := int(math.Round(score))
	if c < floor {
		return floor
	}
	if c > ceiling {
		return ceiling
	}
	return c
}
