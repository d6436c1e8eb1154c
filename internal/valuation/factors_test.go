package valuation

import (
	"math"
	"testing"
)

func TestOrientationFactor(t *testing.T) {
	tables := DefaultTables()

	cases := []struct {
		orientation string
		want        float64
	}{
		{"南北通透", 1.05}, // exact table entry
		{"正南", 1.02},   // exact table entry
		{"坐北朝南北向采光", 1.05}, // 南北 substring wins over 南 and 北
		{"南向", 1.02},
		{"东向", 1.00},
		{"北向", 0.98},
		{"西晒", 0.95},
		{"", 1.00},
		{"未知朝向", 1.00},
	}

	for _, c := range cases {
		if got := tables.OrientationFactor(c.orientation); got != c.want {
			t.Errorf("OrientationFactor(%q) = %f, want %f", c.orientation, got, c.want)
		}
	}
}

func TestAgeFactor(t *testing.T) {
	tables := DefaultTables()

	if got := tables.AgeFactor(2024, 2024); got != 1.0 {
		t.Errorf("new building: got %f, want 1.0", got)
	}
	if got := tables.AgeFactor(2014, 2024); math.Abs(got-0.90) > 1e-9 {
		t.Errorf("10 year building: got %f, want 0.90", got)
	}
	// Decay caps at the floor, 80 years decays no further than 50 would.
	if got := tables.AgeFactor(1944, 2024); got != 0.50 {
		t.Errorf("80 year building: got %f, want floor 0.50", got)
	}
	// Future construction years clamp to zero age.
	if got := tables.AgeFactor(2030, 2024); got != 1.0 {
		t.Errorf("future year: got %f, want 1.0", got)
	}
}

func TestFloorFactor(t *testing.T) {
	tables := DefaultTables()

	// Optimal floor for 20 floors is 6; exactly there means no penalty.
	if got := tables.FloorFactor(6, 20); got != 1.0 {
		t.Errorf("optimal floor: got %f, want 1.0", got)
	}
	// Ten floors above the optimum costs 0.10.
	if got := tables.FloorFactor(16, 20); math.Abs(got-0.90) > 1e-9 {
		t.Errorf("distant floor: got %f, want 0.90", got)
	}
	// Penalty never drops below the floor.
	if got := tables.FloorFactor(100, 100); got != 0.85 {
		t.Errorf("extreme floor: got %f, want 0.85", got)
	}
}

func TestUnknownKeysDefaultToNeutral(t *testing.T) {
	tables := DefaultTables()

	if got := tables.LocationFactor("不存在的区"); got != 1.0 {
		t.Errorf("unknown district: got %f, want 1.0", got)
	}
	if got := tables.BuildingTypeFactor(PropertyType("车库")); got != 1.0 {
		t.Errorf("unknown type: got %f, want 1.0", got)
	}
	if got := tables.DecorationFactor(DecorationLevel("定制")); got != 1.0 {
		t.Errorf("unknown decoration: got %f, want 1.0", got)
	}
}

func TestBasePriceResolution(t *testing.T) {
	tables := DefaultTables()

	t.Run("exact_hit", func(t *testing.T) {
		price, hit := tables.BasePrice("长沙", "岳麓区", PropertyResidential)
		if price != 15000 || !hit {
			t.Errorf("got (%d, %v), want (15000, true)", price, hit)
		}
	})

	t.Run("type_default", func(t *testing.T) {
		// 岳麓区 has no industrial entry.
		price, hit := tables.BasePrice("长沙", "岳麓区", PropertyIndustrial)
		if price != 8000 || hit {
			t.Errorf("got (%d, %v), want (8000, false)", price, hit)
		}
	})

	t.Run("global_fallback", func(t *testing.T) {
		trimmed := DefaultTables()
		trimmed.DefaultBasePrices = nil
		price, hit := trimmed.BasePrice("未知市", "未知区", PropertyResidential)
		if price != 10000 || hit {
			t.Errorf("got (%d, %v), want (10000, false)", price, hit)
		}
	})
}

func TestComprehensiveIsFactorProduct(t *testing.T) {
	tables := DefaultTables()
	fs := tables.Factors(testProperty(), 2024)

	product := fs.Location * fs.Building * fs.Decoration * fs.Orientation * fs.Age * fs.Floor
	if math.Abs(fs.Comprehensive()-product) > 1e-12 {
		t.Errorf("Comprehensive() = %f, want %f", fs.Comprehensive(), product)
	}
}
