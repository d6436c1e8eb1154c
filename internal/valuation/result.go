package valuation

import "time"

// ValuationResult is the outcome of one valuation method run. It is created
// fresh on every call and never mutated afterwards; currency amounts are
// integer yuan so results serialize without float drift.
type ValuationResult struct {
	UnitPrice  int64   `json:"unit_price"`
	TotalValue int64   `json:"total_value"`
	Confidence int     `json:"confidence"`
	Method     Method  `json:"valuation_method"`
	Factors    Factors `json:"factors"`

	ComparableProperties []ComparableProperty `json:"comparable_properties,omitempty"`
	TrendAnalysis        *TrendAnalysis       `json:"trend_analysis,omitempty"`
	EvaluationDetails    []FactorScore        `json:"evaluation_details,omitempty"`
}

// Factors carries the method-specific breakdown attached to a result. Only
// the fields relevant to the method that produced the result are set.
type Factors struct {
	// Market comparison.
	BasePrice     int64      `json:"base_price,omitempty"`
	BasePriceHit  *bool      `json:"base_price_hit,omitempty"`
	Corrections   *FactorSet `json:"corrections,omitempty"`
	Comprehensive float64    `json:"comprehensive_factor,omitempty"`

	// Income capitalization.
	AnnualRentPerSqm float64 `json:"annual_rent_per_sqm,omitempty"`
	GrossIncome      float64 `json:"gross_annual_income,omitempty"`
	NetIncome        float64 `json:"net_annual_income,omitempty"`
	CapRate          float64 `json:"cap_rate,omitempty"`

	// Cost replacement.
	ReplacementCost float64 `json:"replacement_cost,omitempty"`
	Depreciation    float64 `json:"depreciation,omitempty"`

	// Combined.
	MarketResult *ValuationResult `json:"market_result,omitempty"`
	IncomeResult *ValuationResult `json:"income_result,omitempty"`
	CostResult   *ValuationResult `json:"cost_result,omitempty"`
	Weights      *Weights         `json:"weights,omitempty"`
}

// ComparableProperty is a synthetic reference sale supporting a market
// comparison estimate.
type ComparableProperty struct {
	CaseID          string    `json:"case_id"`
	Area            float64   `json:"area"`
	UnitPrice       int64     `json:"unit_price"`
	TotalPrice      int64     `json:"total_price"`
	TransactionDate time.Time `json:"transaction_date"`
	Similarity      int       `json:"similarity"`
}

// TrendPoint is one month of the synthetic price trend.
type TrendPoint struct {
	Month     string `json:"month"`
	UnitPrice int64  `json:"unit_price"`
}

// TrendAnalysis is the twelve-month synthetic price trend attached to a
// valuation result.
type TrendAnalysis struct {
	Points     []TrendPoint `json:"points"`
	YoYGrowth  float64      `json:"yoy_growth_percent"`
	Prediction string       `json:"prediction"`
}

// FactorScore is one dimension of the factor breakdown: a 0-100 display
// score with its fixed weight.
type FactorScore struct {
	Dimension string  `json:"dimension"`
	Score     int     `json:"score"`
	Weight    float64 `json:"weight"`
}
