package valuation

import (
	"math"
	"strings"
)

// orientationRule pairs a substring with the factor it implies. Rules are
// checked in order, compound directions before simple ones, so that 南北通透
// never falls through to a bare 南 match.
type orientationRule struct {
	substr string
	factor float64
}

var orientationRules = []orientationRule{
	{"南北", 1.05},
	{"南", 1.02},
	{"东", 1.00},
	{"北", 0.98},
	{"西", 0.95},
}

// LocationFactor returns the district correction factor, 1.0 when the
// district is not in the table.
func (t *Tables) LocationFactor(district string) float64 {
	if f, ok := t.LocationFactors[district]; ok {
		return f
	}
	return 1.0
}

// BuildingTypeFactor returns the property-type correction factor, 1.0 when
// the type is not in the table.
func (t *Tables) BuildingTypeFactor(pt PropertyType) float64 {
	if f, ok := t.BuildingTypeFactors[pt]; ok {
		return f
	}
	return 1.0
}

// DecorationFactor returns the decoration-level correction factor, 1.0 when
// the level is not in the table.
func (t *Tables) DecorationFactor(level DecorationLevel) float64 {
	if f, ok := t.DecorationFactors[level]; ok {
		return f
	}
	return 1.0
}

// OrientationFactor resolves the orientation correction factor. Exact table
// entries win; otherwise the orientation string is substring-matched against
// the ordered rules, most specific first. Unmatched strings get 1.0.
func (t *Tables) OrientationFactor(orientation string) float64 {
	if f, ok := t.OrientationFactors[orientation]; ok {
		return f
	}
	for _, rule := range orientationRules {
		if strings.Contains(orientation, rule.substr) {
			return rule.factor
		}
	}
	return 1.0
}

// AgeFactor computes the building-age decay factor. Age is clamped to zero
// for properties newer than the valuation date; the total decay is capped so
// the factor never drops below AgeFactorFloor.
func (t *Tables) AgeFactor(constructionYear, currentYear int) float64 {
	age := currentYear - constructionYear
	if age < 0 {
		age = 0
	}
	decay := math.Min(1-t.AgeFactorFloor, float64(age)*t.AgeDecayRate)
	return 1 - decay
}

// FloorFactor peaks at the optimal floor (OptimalFloorRatio of the total)
// and loses FloorPenaltyPerLevel per floor of distance, floored at
// FloorFactorFloor.
func (t *Tables) FloorFactor(floor, totalFloors int) float64 {
	if totalFloors <= 0 {
		return 1.0
	}
	optimal := float64(totalFloors) * t.OptimalFloorRatio
	distance := math.Abs(float64(floor) - optimal)
	f := 1 - distance*t.FloorPenaltyPerLevel
	if f < t.FloorFactorFloor {
		f = t.FloorFactorFloor
	}
	return f
}

// FactorSet holds the individual correction factors of one valuation,
// reported back to the caller for transparency.
type FactorSet struct {
	Location    float64 `json:"location"`
	Building    float64 `json:"building"`
	Decoration  float64 `json:"decoration"`
	Orientation float64 `json:"orientation"`
	Age         float64 `json:"age"`
	Floor       float64 `json:"floor"`
}

// Comprehensive returns the product of all correction factors.
func (f FactorSet) Comprehensive() float64 {
	return f.Location * f.Building * f.Decoration * f.Orientation * f.Age * f.Floor
}

// Factors computes every correction factor for the property as of the given
// year.
func (t *Tables) Factors(p *PropertyInfo, currentYear int) FactorSet {
	return FactorSet{
		Location:    t.LocationFactor(p.District),
		Building:    t.BuildingTypeFactor(p.PropertyType),
		Decoration:  t.DecorationFactor(p.DecorationLevel),
		Orientation: t.OrientationFactor(p.Orientation),
		Age:         t.AgeFactor(p.ConstructionYear, currentYear),
		Floor:       t.FloorFactor(p.Floor, p.TotalFloors),
	}
}
