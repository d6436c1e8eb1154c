// Package valuation implements the multi-method property valuation engine:
// correction factors, base price resolution, the market comparison, income
// capitalization and cost replacement methods, their weighted combination,
// confidence scoring, synthetic supporting artifacts, a parameterized model
// registry, and sensitivity analysis.
//
// The package is pure: all state lives in the injected Tables and in the
// Registry, and every computation is synchronous. Only registry mutators
// touch shared state.
package valuation

import (
	"math"
	"time"
)

// Engine computes valuations against an immutable set of tables. Engines are
// safe for concurrent use.
type Engine struct {
	tables    *Tables
	generator Generator
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine clock. Tests use this to pin the valuation
// date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithGenerator substitutes the supporting-artifact generator, e.g. a
// deterministic fake in tests or a real comparable-sales source later.
func WithGenerator(g Generator) Option {
	return func(e *Engine) { e.generator = g }
}

// NewEngine creates an engine over the given tables. Passing nil tables uses
// the built-in defaults.
func NewEngine(tables *Tables, opts ...Option) *Engine {
	if tables == nil {
		tables = DefaultTables()
	}
	e := &Engine{
		tables: tables,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.generator == nil {
		e.generator = NewSyntheticGenerator(time.Now().UnixNano())
	}
	return e
}

// Tables returns the engine's lookup tables.
func (e *Engine) Tables() *Tables { return e.tables }

// Now returns the engine's current valuation time.
func (e *Engine) Now() time.Time { return e.now() }

// Appraise validates the property and runs the given method. The zero or an
// unrecognized Method falls back to market comparison.
func (e *Engine) Appraise(p *PropertyInfo, m Method) (*ValuationResult, error) {
	if err := ValidateProperty(p, e.now()); err != nil {
		return nil, err
	}
	return e.run(p, m, e.tables.CombinedWeights)
}

// AppraiseWeighted behaves like Appraise but uses the supplied weights for
// the combined method. The weights must sum to 1.0.
func (e *Engine) AppraiseWeighted(p *PropertyInfo, m Method, w Weights) (*ValuationResult, error) {
	if err := ValidateProperty(p, e.now()); err != nil {
		return nil, err
	}
	if m == MethodCombined && math.Abs(w.Sum()-1.0) > weightTolerance {
		return nil, &ConfigError{Reason: "combined weights must sum to 1.0"}
	}
	return e.run(p, m, w)
}

const weightTolerance = 1e-6

func (e *Engine) run(p *PropertyInfo, m Method, w Weights) (*ValuationResult, error) {
	switch m {
	case MethodIncome:
		return e.incomeCapitalization(p), nil
	case MethodCost:
		return e.costReplacement(p), nil
	case MethodCombined:
		return e.combined(p, w)
	default:
		return e.marketComparison(p), nil
	}
}

// marketComparison prices the property as base price times the product of
// all correction factors.
func (e *Engine) marketComparison(p *PropertyInfo) *ValuationResult {
	year := e.now().Year()
	base, hit := e.tables.BasePrice(p.City, p.District, p.PropertyType)
	factors := e.tables.Factors(p, year)
	comprehensive := factors.Comprehensive()

	unitPrice := roundCurrency(float64(base) * comprehensive)
	totalValue := roundCurrency(float64(unitPrice) * p.Area)

	age := year - p.ConstructionYear
	return &ValuationResult{
		UnitPrice:  unitPrice,
		TotalValue: totalValue,
		Confidence: marketConfidence(hit, comprehensive, age),
		Method:     MethodMarket,
		Factors: Factors{
			BasePrice:     base,
			BasePriceHit:  &hit,
			Corrections:   &factors,
			Comprehensive: comprehensive,
		},
	}
}

// incomeCapitalization converts net annual rental income into a present
// value through the per-type capitalization rate.
func (e *Engine) incomeCapitalization(p *PropertyInfo) *ValuationResult {
	rent, ok := e.tables.AnnualRentPerSqm[p.PropertyType]
	if !ok {
		rent = e.tables.AnnualRentPerSqm[PropertyResidential]
	}
	grossIncome := p.Area * rent

	costRatio := e.tables.OperatingCostRatioDefault
	if p.PropertyType == PropertyCommercial {
		costRatio = e.tables.OperatingCostRatioCommercial
	}
	netIncome := grossIncome - grossIncome*costRatio

	capRate, ok := e.tables.CapRates[p.PropertyType]
	if !ok {
		capRate = 4.5
	}

	totalValue := roundCurrency(netIncome / (capRate / 100))
	unitPrice := roundCurrency(float64(totalValue) / p.Area)
	// Rounding unitPrice independently can break the total==unit*area
	// invariant, so the total is recomputed from the rounded unit price.
	totalValue = roundCurrency(float64(unitPrice) * p.Area)

	return &ValuationResult{
		UnitPrice:  unitPrice,
		TotalValue: totalValue,
		Confidence: incomeConfidence(capRate),
		Method:     MethodIncome,
		Factors: Factors{
			AnnualRentPerSqm: rent,
			GrossIncome:      grossIncome,
			NetIncome:        netIncome,
			CapRate:          capRate,
		},
	}
}

// costReplacement prices the property as the depreciated cost of rebuilding
// it today.
func (e *Engine) costReplacement(p *PropertyInfo) *ValuationResult {
	t := e.tables
	landCost := p.Area * lookupCost(t.LandCostPerSqm, p.PropertyType)
	devCost := p.Area * lookupCost(t.DevelopmentCostPerSqm, p.PropertyType)
	managementFee := devCost * t.ManagementFeeRatio

	estimatedSalePrice := (landCost + devCost) * t.SalePriceMarkup
	salesFee := estimatedSalePrice * t.SalesFeeRatio
	salesTax := estimatedSalePrice * t.SalesTaxRatio

	financedBase := landCost + devCost + managementFee
	interest := financedBase * t.AnnualInterestRate * t.DevelopmentYears

	margin := t.ProfitMarginDefault
	if p.PropertyType == PropertyCommercial {
		margin = t.ProfitMarginCommercial
	}
	profit := financedBase * margin

	replacementCost := landCost + devCost + managementFee + salesFee + interest + salesTax + profit

	age := e.now().Year() - p.ConstructionYear
	if age < 0 {
		age = 0
	}
	depRatio := float64(age) / t.ServiceLifeYears
	capped := depRatio >= 1
	if capped {
		depRatio = 1
	}
	depreciation := replacementCost * (1 - t.ResidualValueRatio) * depRatio

	totalValue := roundCurrency(replacementCost - depreciation)
	unitPrice := roundCurrency(float64(totalValue) / p.Area)
	totalValue = roundCurrency(float64(unitPrice) * p.Area)

	return &ValuationResult{
		UnitPrice:  unitPrice,
		TotalValue: totalValue,
		Confidence: costConfidence(age, capped),
		Method:     MethodCost,
		Factors: Factors{
			ReplacementCost: replacementCost,
			Depreciation:    depreciation,
		},
	}
}

// combined runs all three methods and averages them with the given weights.
// The sub-results and weights are retained in the factors for transparency.
func (e *Engine) combined(p *PropertyInfo, w Weights) (*ValuationResult, error) {
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return nil, &ConfigError{Reason: "combined weights must sum to 1.0"}
	}

	market := e.marketComparison(p)
	income := e.incomeCapitalization(p)
	cost := e.costReplacement(p)

	unitPrice := roundCurrency(
		w.Market*float64(market.UnitPrice) +
			w.Income*float64(income.UnitPrice) +
			w.Cost*float64(cost.UnitPrice))
	totalValue := roundCurrency(float64(unitPrice) * p.Area)

	confidence := combinedConfidence(w, market.Confidence, income.Confidence, cost.Confidence)

	weights := w
	return &ValuationResult{
		UnitPrice:  unitPrice,
		TotalValue: totalValue,
		Confidence: confidence,
		Method:     MethodCombined,
		Factors: Factors{
			MarketResult: market,
			IncomeResult: income,
			CostResult:   cost,
			Weights:      &weights,
		},
	}, nil
}

// Enrich attaches the synthetic supporting artifacts (comparable sales,
// price trend, factor breakdown) to a result. Sub-results of a combined
// valuation are left untouched.
func (e *Engine) Enrich(p *PropertyInfo, result *ValuationResult) {
	base, _ := e.tables.BasePrice(p.City, p.District, p.PropertyType)
	now := e.now()
	result.ComparableProperties = e.generator.Comparables(p, base, now)
	result.TrendAnalysis = e.generator.Trend(base, now)
	result.EvaluationDetails = e.factorBreakdown(p)
}

// factorBreakdown normalizes every correction factor into a 0-100 display
// score paired with its fixed weight.
func (e *Engine) factorBreakdown(p *PropertyInfo) []FactorScore {
	year := e.now().Year()
	fs := e.tables.Factors(p, year)
	w := e.tables.BreakdownWeights

	facilityScore := 60 + 8*len(p.NearbyFacilities)
	if facilityScore > 100 {
		facilityScore = 100
	}

	return []FactorScore{
		{Dimension: "location", Score: displayScore(fs.Location), Weight: w.Location},
		{Dimension: "building_type", Score: displayScore(fs.Building), Weight: w.Building},
		{Dimension: "decoration", Score: displayScore(fs.Decoration), Weight: w.Decoration},
		{Dimension: "orientation", Score: displayScore(fs.Orientation), Weight: w.Orientation},
		{Dimension: "age", Score: displayScore(fs.Age), Weight: w.Age},
		{Dimension: "facilities", Score: facilityScore, Weight: w.Facilities},
	}
}

// displayScore maps the usual factor range [0.7, 1.3] onto [40, 100].
func displayScore(factor float64) int {
	score := (factor-0.7)/0.6*60 + 40
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func lookupCost(table map[PropertyType]float64, pt PropertyType) float64 {
	if c, ok := table[pt]; ok {
		return c
	}
	return table[PropertyResidential]
}

// roundCurrency rounds to the nearest integer yuan.
func roundCurrency(v float64) int64 {
	return int64(math.Round(v))
}
