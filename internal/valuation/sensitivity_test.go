package valuation

import (
	"errors"
	"math"
	"testing"
)

func TestSensitivity(t *testing.T) {
	e := testEngine()

	t.Run("reports_change_per_variation", func(t *testing.T) {
		p := testProperty()
		report, err := e.Sensitivity(p, MethodMarket,
			[]string{"area"},
			map[string]FieldSweep{
				"area": {Base: 100, Variations: []float64{80, 100, 120}},
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Fields) != 1 {
			t.Fatalf("expected 1 field, got %d", len(report.Fields))
		}
		points := report.Fields[0].Points
		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %d", len(points))
		}

		// The variation equal to the base reproduces the baseline.
		if points[1].ChangePercent != 0 {
			t.Errorf("base variation: expected 0%% change, got %f", points[1].ChangePercent)
		}
		if points[1].Result.TotalValue != report.BaseResult.TotalValue {
			t.Errorf("base variation result differs from baseline")
		}

		// Unit price is area-independent under market comparison, so total
		// value scales linearly: -20% and +20%.
		if math.Abs(points[0].ChangePercent+20) > 0.01 {
			t.Errorf("80sqm: expected about -20%%, got %f", points[0].ChangePercent)
		}
		if math.Abs(points[2].ChangePercent-20) > 0.01 {
			t.Errorf("120sqm: expected about +20%%, got %f", points[2].ChangePercent)
		}
	})

	t.Run("preserves_field_and_variation_order", func(t *testing.T) {
		report, err := e.Sensitivity(testProperty(), MethodMarket,
			[]string{"floor", "area"},
			map[string]FieldSweep{
				"area":  {Base: 100, Variations: []float64{120, 80}},
				"floor": {Base: 5, Variations: []float64{1, 9}},
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Fields[0].Field != "floor" || report.Fields[1].Field != "area" {
			t.Errorf("field order not preserved: %s, %s", report.Fields[0].Field, report.Fields[1].Field)
		}
		areaPoints := report.Fields[1].Points
		if areaPoints[0].Value != 120 || areaPoints[1].Value != 80 {
			t.Errorf("variation order not preserved: %v", areaPoints)
		}
	})

	t.Run("does_not_mutate_base_property", func(t *testing.T) {
		p := testProperty()
		_, err := e.Sensitivity(p, MethodMarket,
			[]string{"construction_year"},
			map[string]FieldSweep{
				"construction_year": {Base: 2015, Variations: []float64{2000, 2020}},
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ConstructionYear != 2015 {
			t.Errorf("base property mutated: year %d", p.ConstructionYear)
		}
	})

	t.Run("rejects_unsweepable_field", func(t *testing.T) {
		_, err := e.Sensitivity(testProperty(), MethodMarket,
			[]string{"city"},
			map[string]FieldSweep{
				"city": {Base: 0, Variations: []float64{1}},
			})
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %T: %v", err, err)
		}
	})

	t.Run("invalid_variation_fails", func(t *testing.T) {
		_, err := e.Sensitivity(testProperty(), MethodMarket,
			[]string{"area"},
			map[string]FieldSweep{
				"area": {Base: 100, Variations: []float64{-50}},
			})
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %T: %v", err, err)
		}
	})
}
