package valuation

import "fmt"

// FieldSweep describes one field to vary: its base value and the variations
// to apply, in the order they should be reported.
type FieldSweep struct {
	Base       float64   `json:"base"`
	Variations []float64 `json:"variations"`
}

// SensitivityPoint is a single variation outcome.
type SensitivityPoint struct {
	Value         float64          `json:"value"`
	Result        *ValuationResult `json:"result"`
	ChangePercent float64          `json:"change_percent"`
}

// FieldSensitivity groups the outcomes of sweeping one field.
type FieldSensitivity struct {
	Field  string             `json:"field"`
	Base   float64            `json:"base"`
	Points []SensitivityPoint `json:"points"`
}

// SensitivityReport is the full sweep output plus the unvaried baseline.
type SensitivityReport struct {
	BaseResult *ValuationResult   `json:"base_result"`
	Fields     []FieldSensitivity `json:"fields"`
}

// sweepableFields are the property fields the sensitivity engine can vary.
var sweepableFields = map[string]func(*PropertyInfo, float64){
	"area":              func(p *PropertyInfo, v float64) { p.Area = v },
	"floor":             func(p *PropertyInfo, v float64) { p.Floor = int(v) },
	"total_floors":      func(p *PropertyInfo, v float64) { p.TotalFloors = int(v) },
	"construction_year": func(p *PropertyInfo, v float64) { p.ConstructionYear = int(v) },
	"lot_ratio":         func(p *PropertyInfo, v float64) { p.LotRatio = v },
	"green_ratio":       func(p *PropertyInfo, v float64) { p.GreenRatio = v },
}

// Sensitivity re-runs the valuation across every variation of every swept
// field and reports the percentage change in total value relative to the
// baseline. The caller's property is cloned per run and never mutated.
// Fields iterate in the order given; variation order is preserved.
func (e *Engine) Sensitivity(p *PropertyInfo, m Method, fields []string, sweeps map[string]FieldSweep) (*SensitivityReport, error) {
	base, err := e.Appraise(p, m)
	if err != nil {
		return nil, err
	}

	report := &SensitivityReport{
		BaseResult: base,
		Fields:     make([]FieldSensitivity, 0, len(sweeps)),
	}

	for _, field := range fields {
		sweep, ok := sweeps[field]
		if !ok {
			continue
		}
		setter, ok := sweepableFields[field]
		if !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("field %q cannot be varied", field)}
		}

		fs := FieldSensitivity{
			Field:  field,
			Base:   sweep.Base,
			Points: make([]SensitivityPoint, 0, len(sweep.Variations)),
		}
		for _, value := range sweep.Variations {
			varied := p.Clone()
			setter(varied, value)

			result, err := e.Appraise(varied, m)
			if err != nil {
				return nil, err
			}

			change := 0.0
			if base.TotalValue != 0 {
				change = float64(result.TotalValue-base.TotalValue) / float64(base.TotalValue) * 100
			}
			fs.Points = append(fs.Points, SensitivityPoint{
				Value:         value,
				Result:        result,
				ChangePercent: change,
			})
		}
		report.Fields = append(report.Fields, fs)
	}

	return report, nil
}
