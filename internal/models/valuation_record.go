package models

import (
	"encoding/json"

	"propval/internal/valuation"
)

// ValuationRecord is the persisted outcome of one valuation request: the
// property snapshot, the result of every method that was run, and the
// averages used by history comparison. Records are written once and never
// updated.
type ValuationRecord struct {
	Base
	City         string  `gorm:"not null;index" json:"city"`
	District     string  `gorm:"not null;index" json:"district"`
	PropertyType string  `gorm:"not null" json:"property_type"`
	Area         float64 `gorm:"not null" json:"area"`

	// PropertySnapshot and Results hold the full request and response
	// payloads as JSON so history comparison can replay them unchanged.
	PropertySnapshot string `gorm:"type:text;not null" json:"-"`
	Results          string `gorm:"type:text;not null" json:"-"`

	AveragePrice     int64  `gorm:"type:bigint;not null" json:"average_price"`
	AverageUnitPrice int64  `gorm:"type:bigint;not null" json:"average_unit_price"`
	Tags             string `json:"tags,omitempty"`
}

// Property decodes the stored property snapshot.
func (r *ValuationRecord) Property() (*valuation.PropertyInfo, error) {
	var p valuation.PropertyInfo
	if err := json.Unmarshal([]byte(r.PropertySnapshot), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodedResults decodes the stored per-method results.
func (r *ValuationRecord) DecodedResults() ([]*valuation.ValuationResult, error) {
	var results []*valuation.ValuationResult
	if err := json.Unmarshal([]byte(r.Results), &results); err != nil {
		return nil, err
	}
	return results, nil
}
