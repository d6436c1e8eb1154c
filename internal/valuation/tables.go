package valuation

// Tables holds every lookup table and tunable rate the engine consults.
// A Tables value is treated as immutable once handed to an Engine; tests
// construct alternates instead of mutating the defaults.
type Tables struct {
	// BasePrices maps city -> district -> property type -> reference price
	// per square meter. Missing entries fall back to DefaultBasePrices and
	// then GlobalBasePrice.
	BasePrices map[string]map[string]map[PropertyType]int64

	// DefaultBasePrices is the per-type fallback used when a
	// (city, district, type) entry is absent.
	DefaultBasePrices map[PropertyType]int64

	// GlobalBasePrice is the last-resort price per square meter.
	GlobalBasePrice int64

	// LocationFactors maps district name to a location correction factor.
	LocationFactors map[string]float64

	// BuildingTypeFactors maps property type to a correction factor.
	BuildingTypeFactors map[PropertyType]float64

	// DecorationFactors maps decoration level to a correction factor.
	DecorationFactors map[DecorationLevel]float64

	// OrientationFactors maps exact orientation strings to factors. Strings
	// that miss this table go through substring matching (see OrientationFactor).
	OrientationFactors map[string]float64

	// AgeDecayRate is the per-year value decay applied by the age factor.
	AgeDecayRate float64
	// AgeFactorFloor bounds the age factor from below.
	AgeFactorFloor float64

	// OptimalFloorRatio positions the best floor as a fraction of total floors.
	OptimalFloorRatio float64
	// FloorPenaltyPerLevel is subtracted per floor of distance from the optimum.
	FloorPenaltyPerLevel float64
	// FloorFactorFloor bounds the floor-position factor from below.
	FloorFactorFloor float64

	// AnnualRentPerSqm maps property type to the gross annual rent per square
	// meter used by the income capitalization method.
	AnnualRentPerSqm map[PropertyType]float64

	// CapRates maps property type to a capitalization rate in percent.
	CapRates map[PropertyType]float64

	// OperatingCostRatioCommercial / OperatingCostRatioDefault are the shares
	// of gross income consumed by operating costs.
	OperatingCostRatioCommercial float64
	OperatingCostRatioDefault    float64

	// LandCostPerSqm and DevelopmentCostPerSqm feed the cost method.
	LandCostPerSqm        map[PropertyType]float64
	DevelopmentCostPerSqm map[PropertyType]float64

	// Cost method rates.
	ManagementFeeRatio     float64
	SalePriceMarkup        float64
	SalesFeeRatio          float64
	SalesTaxRatio          float64
	AnnualInterestRate     float64
	DevelopmentYears       float64
	ProfitMarginCommercial float64
	ProfitMarginDefault    float64

	// Depreciation parameters: straight line over ServiceLifeYears down to
	// ResidualValueRatio of the replacement cost.
	ServiceLifeYears   float64
	ResidualValueRatio float64

	// CombinedWeights is the default weight map for the combined method.
	CombinedWeights Weights

	// BreakdownWeights are the fixed display weights of the factor breakdown.
	// They must sum to 1.0.
	BreakdownWeights BreakdownWeights
}

// Weights carries the combined-method weight map. A valid set sums to 1.0.
type Weights struct {
	Market float64 `json:"market"`
	Income float64 `json:"income"`
	Cost   float64 `json:"cost"`
}

// Sum returns the total of the three weights.
func (w Weights) Sum() float64 { return w.Market + w.Income + w.Cost }

// BreakdownWeights holds the display weights of the six factor dimensions.
type BreakdownWeights struct {
	Location    float64 `json:"location"`
	Building    float64 `json:"building"`
	Decoration  float64 `json:"decoration"`
	Orientation float64 `json:"orientation"`
	Age         float64 `json:"age"`
	Facilities  float64 `json:"facilities"`
}

// Sum returns the total of the six weights.
func (b BreakdownWeights) Sum() float64 {
	return b.Location + b.Building + b.Decoration + b.Orientation + b.Age + b.Facilities
}

// DefaultTables returns the built-in reference tables. The price data is a
// static snapshot centered on Changsha; unknown keys degrade to defaults
// rather than failing.
func DefaultTables() *Tables {
	return &Tables{
		BasePrices: map[string]map[string]map[PropertyType]int64{
			"长沙": {
				"岳麓区": {
					PropertyResidential: 15000,
					PropertyCommercial:  25000,
					PropertyOffice:      18000,
					PropertyVilla:       22000,
				},
				"芙蓉区": {
					PropertyResidential: 16000,
					PropertyCommercial:  28000,
					PropertyOffice:      19000,
				},
				"天心区": {
					PropertyResidential: 14000,
					PropertyCommercial:  24000,
					PropertyOffice:      17000,
				},
				"开福区": {
					PropertyResidential: 13500,
					PropertyCommercial:  22000,
				},
				"雨花区": {
					PropertyResidential: 13000,
					PropertyCommercial:  21000,
				},
				"望城区": {
					PropertyResidential: 9500,
					PropertyIndustrial:  6000,
				},
			},
			"株洲": {
				"天元区": {
					PropertyResidential: 8500,
					PropertyCommercial:  15000,
				},
			},
		},
		DefaultBasePrices: map[PropertyType]int64{
			PropertyResidential: 12000,
			PropertyCommercial:  20000,
			PropertyOffice:      15000,
			PropertyIndustrial:  8000,
			PropertyVilla:       18000,
		},
		GlobalBasePrice: 10000,

		LocationFactors: map[string]float64{
			"岳麓区": 1.10,
			"芙蓉区": 1.15,
			"天心区": 1.05,
			"开福区": 1.00,
			"雨花区": 1.00,
			"望城区": 0.85,
			"长沙县": 0.80,
			"天元区": 0.90,
		},
		BuildingTypeFactors: map[PropertyType]float64{
			PropertyResidential: 1.00,
			PropertyCommercial:  1.15,
			PropertyOffice:      1.05,
			PropertyIndustrial:  0.80,
			PropertyVilla:       1.20,
		},
		DecorationFactors: map[DecorationLevel]float64{
			DecorationBare:   0.90,
			DecorationSimple: 1.00,
			DecorationMedium: 1.05,
			DecorationFine:   1.10,
			DecorationLuxury: 1.20,
		},
		OrientationFactors: map[string]float64{
			"南北通透": 1.05,
			"正南":   1.02,
		},
		AgeDecayRate:   0.01,
		AgeFactorFloor: 0.50,

		OptimalFloorRatio:    0.30,
		FloorPenaltyPerLevel: 0.01,
		FloorFactorFloor:     0.85,

		AnnualRentPerSqm: map[PropertyType]float64{
			PropertyResidential: 480,
			PropertyCommercial:  1800,
			PropertyOffice:      1200,
			PropertyIndustrial:  360,
			PropertyVilla:       600,
		},
		CapRates: map[PropertyType]float64{
			PropertyResidential: 3.5,
			PropertyCommercial:  5.0,
			PropertyOffice:      4.5,
			PropertyIndustrial:  5.0,
			PropertyVilla:       4.0,
		},
		OperatingCostRatioCommercial: 0.30,
		OperatingCostRatioDefault:    0.25,

		LandCostPerSqm: map[PropertyType]float64{
			PropertyResidential: 3000,
			PropertyCommercial:  5000,
			PropertyOffice:      4000,
			PropertyIndustrial:  1200,
			PropertyVilla:       4500,
		},
		DevelopmentCostPerSqm: map[PropertyType]float64{
			PropertyResidential: 3500,
			PropertyCommercial:  4500,
			PropertyOffice:      4200,
			PropertyIndustrial:  2200,
			PropertyVilla:       5000,
		},
		ManagementFeeRatio:     0.04,
		SalePriceMarkup:        1.30,
		SalesFeeRatio:          0.025,
		SalesTaxRatio:          0.056,
		AnnualInterestRate:     0.045,
		DevelopmentYears:       2,
		ProfitMarginCommercial: 0.30,
		ProfitMarginDefault:    0.25,

		ServiceLifeYears:   50,
		ResidualValueRatio: 0.05,

		CombinedWeights: Weights{Market: 0.4, Income: 0.3, Cost: 0.3},

		BreakdownWeights: BreakdownWeights{
			Location:    0.30,
			Building:    0.20,
			Decoration:  0.15,
			Orientation: 0.10,
			Age:         0.15,
			Facilities:  0.10,
		},
	}
}

// BasePrice resolves the per-square-meter reference price for the given
// (city, district, property type). Resolution order: exact entry, per-type
// default, global default. The bool reports whether an exact entry was found;
// a miss lowers downstream confidence but never fails.
func (t *Tables) BasePrice(city, district string, pt PropertyType) (int64, bool) {
	if districts, ok := t.BasePrices[city]; ok {
		if prices, ok := districts[district]; ok {
			if price, ok := prices[pt]; ok {
				return price, true
			}
		}
	}
	if price, ok := t.DefaultBasePrices[pt]; ok {
		return price, false
	}
	return t.GlobalBasePrice, false
}
