package valuation

import (
	"errors"
	"math"
	"testing"
	"time"
)

// fixedClock pins valuations to mid-2024 so age-dependent results are stable.
func fixedClock() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func testEngine() *Engine {
	return NewEngine(nil, WithClock(fixedClock), WithGenerator(NewSyntheticGenerator(1)))
}

func testProperty() *PropertyInfo {
	return &PropertyInfo{
		Area:             100,
		City:             "长沙",
		District:         "岳麓区",
		PropertyType:     PropertyResidential,
		DecorationLevel:  DecorationFine,
		Orientation:      "南北通透",
		ConstructionYear: 2015,
		Floor:            5,
		TotalFloors:      18,
		LotRatio:         2.5,
		GreenRatio:       35,
		NearbyFacilities: []string{"地铁", "学校", "医院"},
	}
}

func TestMarketComparison(t *testing.T) {
	e := testEngine()

	t.Run("changsha_residential", func(t *testing.T) {
		result, err := e.Appraise(testProperty(), MethodMarket)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// base 15000, factors 1.10 * 1.00 * 1.10 * 1.05 * 0.91 * 0.996
		if result.UnitPrice != 17273 {
			t.Errorf("expected unit price 17273, got %d", result.UnitPrice)
		}
		if result.TotalValue != 1727300 {
			t.Errorf("expected total value 1727300, got %d", result.TotalValue)
		}
		if result.Confidence != 92 {
			t.Errorf("expected confidence 92, got %d", result.Confidence)
		}
		if result.Factors.BasePrice != 15000 {
			t.Errorf("expected base price 15000, got %d", result.Factors.BasePrice)
		}
		if result.Factors.BasePriceHit == nil || !*result.Factors.BasePriceHit {
			t.Error("expected base price hit")
		}
		if result.Factors.Comprehensive < 0.8 || result.Factors.Comprehensive > 1.3 {
			t.Errorf("comprehensive factor %f outside usual range", result.Factors.Comprehensive)
		}
	})

	t.Run("unknown_city_falls_back", func(t *testing.T) {
		p := testProperty()
		p.City = "北京"
		p.District = "朝阳区"

		result, err := e.Appraise(p, MethodMarket)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Factors.BasePrice != 12000 {
			t.Errorf("expected default base price 12000, got %d", result.Factors.BasePrice)
		}
		if result.Factors.BasePriceHit == nil || *result.Factors.BasePriceHit {
			t.Error("expected base price miss")
		}
		// 92 minus 10 for the base price miss
		if result.Confidence != 82 {
			t.Errorf("expected confidence 82, got %d", result.Confidence)
		}
	})

	t.Run("invalid_property", func(t *testing.T) {
		p := testProperty()
		p.Area = -1

		_, err := e.Appraise(p, MethodMarket)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %T: %v", err, err)
		}
	})
}

func TestIncomeCapitalization(t *testing.T) {
	e := testEngine()

	t.Run("residential", func(t *testing.T) {
		result, err := e.Appraise(testProperty(), MethodIncome)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// gross 48000, net 36000, cap rate 3.5% -> 1028571 total
		if result.Factors.GrossIncome != 48000 {
			t.Errorf("expected gross income 48000, got %f", result.Factors.GrossIncome)
		}
		if result.Factors.NetIncome != 36000 {
			t.Errorf("expected net income 36000, got %f", result.Factors.NetIncome)
		}
		if result.Factors.CapRate != 3.5 {
			t.Errorf("expected cap rate 3.5, got %f", result.Factors.CapRate)
		}
		if result.UnitPrice != 10286 {
			t.Errorf("expected unit price 10286, got %d", result.UnitPrice)
		}
		if result.Confidence != 88 {
			t.Errorf("expected confidence 88, got %d", result.Confidence)
		}
	})

	t.Run("commercial_operating_costs", func(t *testing.T) {
		p := testProperty()
		p.PropertyType = PropertyCommercial

		result, err := e.Appraise(p, MethodIncome)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// gross 180000 with the 30% commercial operating cost ratio
		if result.Factors.NetIncome != 126000 {
			t.Errorf("expected net income 126000, got %f", result.Factors.NetIncome)
		}
		// higher cap rate prices in more uncertainty: 88 - (5.0-3.5)*4 = 82
		if result.Confidence != 82 {
			t.Errorf("expected confidence 82, got %d", result.Confidence)
		}
	})
}

func TestCostReplacement(t *testing.T) {
	e := testEngine()

	t.Run("residential", func(t *testing.T) {
		result, err := e.Appraise(testProperty(), MethodCost)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Factors.ReplacementCost != 958205 {
			t.Errorf("expected replacement cost 958205, got %f", result.Factors.ReplacementCost)
		}
		if result.UnitPrice != 7944 {
			t.Errorf("expected unit price 7944, got %d", result.UnitPrice)
		}
		// 90 - 9*0.5 = 85.5, rounded
		if result.Confidence != 86 {
			t.Errorf("expected confidence 86, got %d", result.Confidence)
		}
	})

	t.Run("depreciation_capped_for_old_buildings", func(t *testing.T) {
		p := testProperty()
		p.ConstructionYear = 1950

		result, err := e.Appraise(p, MethodCost)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 74 years exceeds the 50 year service life; value bottoms out at
		// the residual ratio of the replacement cost.
		residual := roundCurrency(result.Factors.ReplacementCost * 0.05)
		expectedUnit := roundCurrency(float64(residual) / p.Area)
		if result.UnitPrice != expectedUnit {
			t.Errorf("expected unit price %d, got %d", expectedUnit, result.UnitPrice)
		}
		if result.Confidence != 62 {
			t.Errorf("expected floor confidence 62, got %d", result.Confidence)
		}
	})
}

func TestCombined(t *testing.T) {
	e := testEngine()

	t.Run("default_weights", func(t *testing.T) {
		result, err := e.Appraise(testProperty(), MethodCombined)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 0.4*17273 + 0.3*10286 + 0.3*7944
		if result.UnitPrice != 12378 {
			t.Errorf("expected unit price 12378, got %d", result.UnitPrice)
		}
		// 0.4*92 + 0.3*88 + 0.3*86
		if result.Confidence != 89 {
			t.Errorf("expected confidence 89, got %d", result.Confidence)
		}
		if result.Factors.MarketResult == nil || result.Factors.IncomeResult == nil || result.Factors.CostResult == nil {
			t.Fatal("expected all three sub-results")
		}
		if result.Factors.Weights == nil || result.Factors.Weights.Market != 0.4 {
			t.Errorf("expected default weights in factors, got %+v", result.Factors.Weights)
		}
	})

	t.Run("custom_weights", func(t *testing.T) {
		result, err := e.AppraiseWeighted(testProperty(), MethodCombined, Weights{Market: 1, Income: 0, Cost: 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.UnitPrice != 17273 {
			t.Errorf("expected market-only unit price 17273, got %d", result.UnitPrice)
		}
	})

	t.Run("weights_must_sum_to_one", func(t *testing.T) {
		_, err := e.AppraiseWeighted(testProperty(), MethodCombined, Weights{Market: 0.5, Income: 0.3, Cost: 0.3})
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %T: %v", err, err)
		}
	})
}

func TestTotalValueMatchesUnitPriceTimesArea(t *testing.T) {
	e := testEngine()
	p := testProperty()
	p.Area = 87.6

	for _, m := range Methods() {
		result, err := e.Appraise(p, m)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		expected := roundCurrency(float64(result.UnitPrice) * p.Area)
		if result.TotalValue != expected {
			t.Errorf("%s: total %d != round(unit %d * area %f) = %d",
				m, result.TotalValue, result.UnitPrice, p.Area, expected)
		}
	}
}

func TestConfidenceBounds(t *testing.T) {
	e := testEngine()
	properties := []*PropertyInfo{testProperty()}

	old := testProperty()
	old.ConstructionYear = 1905
	old.City = "未知市"
	old.District = "未知区"
	properties = append(properties, old)

	for _, p := range properties {
		for _, m := range Methods() {
			result, err := e.Appraise(p, m)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", m, err)
			}
			if result.Confidence < 60 || result.Confidence > 98 {
				t.Errorf("%s: confidence %d outside [60, 98]", m, result.Confidence)
			}
		}
	}
}

func TestEnrich(t *testing.T) {
	e := testEngine()
	p := testProperty()

	result, err := e.Appraise(p, MethodMarket)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Enrich(p, result)

	if len(result.ComparableProperties) != 3 {
		t.Fatalf("expected 3 comparables, got %d", len(result.ComparableProperties))
	}
	for _, cmp := range result.ComparableProperties {
		if cmp.Similarity < 85 || cmp.Similarity > 100 {
			t.Errorf("similarity %d outside [85, 100]", cmp.Similarity)
		}
		if cmp.Area < p.Area*0.89 || cmp.Area > p.Area*1.11 {
			t.Errorf("comparable area %f too far from subject area %f", cmp.Area, p.Area)
		}
	}

	if result.TrendAnalysis == nil {
		t.Fatal("expected trend analysis")
	}
	if len(result.TrendAnalysis.Points) != 12 {
		t.Errorf("expected 12 trend points, got %d", len(result.TrendAnalysis.Points))
	}
	if result.TrendAnalysis.Prediction == "" {
		t.Error("expected a prediction string")
	}

	if len(result.EvaluationDetails) != 6 {
		t.Fatalf("expected 6 factor dimensions, got %d", len(result.EvaluationDetails))
	}
	var weightSum float64
	for _, fs := range result.EvaluationDetails {
		if fs.Score < 0 || fs.Score > 100 {
			t.Errorf("%s: score %d outside [0, 100]", fs.Dimension, fs.Score)
		}
		weightSum += fs.Weight
	}
	if math.Abs(weightSum-1.0) > 1e-9 {
		t.Errorf("breakdown weights sum to %f, want 1.0", weightSum)
	}
}

func TestMethodParsing(t *testing.T) {
	if _, ok := ParseMethod("unknown_method"); ok {
		t.Error("expected ParseMethod to reject unknown names")
	}
	if m, ok := ParseMethod("income_capitalization"); !ok || m != MethodIncome {
		t.Errorf("expected MethodIncome, got %s (ok=%v)", m, ok)
	}
	if m := MethodOrDefault("unknown_method"); m != MethodMarket {
		t.Errorf("expected lenient fallback to market, got %s", m)
	}
	if m := MethodOrDefault(""); m != MethodMarket {
		t.Errorf("expected empty method to default to market, got %s", m)
	}
}
