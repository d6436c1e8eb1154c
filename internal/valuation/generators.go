package valuation

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Generator produces the illustrative artifacts attached to a valuation
// result. Implementations can be swapped for real data sources or for
// deterministic fakes in tests.
type Generator interface {
	// Comparables returns synthetic reference sales around the subject
	// property and its resolved base price.
	Comparables(p *PropertyInfo, basePrice int64, now time.Time) []ComparableProperty

	// Trend returns a twelve-month synthetic price trend derived from the
	// base price.
	Trend(basePrice int64, now time.Time) *TrendAnalysis
}

const comparableCount = 3

// syntheticGenerator fabricates comparables and trends from a seeded random
// source. The source is guarded by a mutex so concurrent valuations stay
// race-free.
type syntheticGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticGenerator creates the default generator with the given seed.
func NewSyntheticGenerator(seed int64) Generator {
	return &syntheticGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *syntheticGenerator) Comparables(p *PropertyInfo, basePrice int64, now time.Time) []ComparableProperty {
	g.mu.Lock()
	defer g.mu.Unlock()

	comps := make([]ComparableProperty, 0, comparableCount)
	for i := 0; i < comparableCount; i++ {
		// Area within ±10%, unit price within ±5% of the subject.
		area := p.Area * (0.9 + g.rng.Float64()*0.2)
		unitPrice := roundCurrency(float64(basePrice) * (0.95 + g.rng.Float64()*0.1))
		daysAgo := g.rng.Intn(365)
		date := now.AddDate(0, 0, -daysAgo)

		comps = append(comps, ComparableProperty{
			CaseID:          fmt.Sprintf("CMP-%s-%02d", date.Format("200601"), i+1),
			Area:            round1(area),
			UnitPrice:       unitPrice,
			TotalPrice:      roundCurrency(area * float64(unitPrice)),
			TransactionDate: date,
			Similarity:      85 + g.rng.Intn(16),
		})
	}
	return comps
}

func (g *syntheticGenerator) Trend(basePrice int64, now time.Time) *TrendAnalysis {
	g.mu.Lock()
	defer g.mu.Unlock()

	const months = 12
	points := make([]TrendPoint, 0, months)
	for i := 0; i < months; i++ {
		month := now.AddDate(0, i-(months-1), 0)
		// Small upward drift plus noise.
		drift := 1 + 0.003*float64(i)
		noise := 1 + (g.rng.Float64()-0.5)*0.02
		points = append(points, TrendPoint{
			Month:     month.Format("2006-01"),
			UnitPrice: roundCurrency(float64(basePrice) * drift * noise),
		})
	}

	first := float64(points[0].UnitPrice)
	last := float64(points[months-1].UnitPrice)
	growth := (last - first) / first * 100

	return &TrendAnalysis{
		Points:     points,
		YoYGrowth:  growth,
		Prediction: trendPrediction(growth),
	}
}

func trendPrediction(growth float64) string {
	switch {
	case growth > 0:
		return "未来房价预计稳中有升"
	case growth < 0:
		return "未来房价或将小幅回调"
	default:
		return "未来房价预计保持平稳"
	}
}

// round1 rounds an area to one decimal place for display.
func round1(v float64) float64 {
	return float64(roundCurrency(v*10)) / 10
}
