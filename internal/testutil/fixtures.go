package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"propval/internal/models"
	"propval/internal/valuation"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestProperty returns a valid residential property in 长沙 whose district
// has a configured base price.
func TestProperty() *valuation.PropertyInfo {
	return &valuation.PropertyInfo{
		Area:             100,
		City:             "长沙",
		District:         "岳麓区",
		PropertyType:     valuation.PropertyResidential,
		DecorationLevel:  valuation.DecorationFine,
		Orientation:      "南北通透",
		ConstructionYear: 2015,
		Floor:            5,
		TotalFloors:      18,
		LotRatio:         2.5,
		GreenRatio:       35,
		NearbyFacilities: []string{"地铁", "学校", "医院"},
	}
}

// CreateTestRecord persists a valuation record with the given averages and
// creation time.
func CreateTestRecord(t *testing.T, db *gorm.DB, avgPrice, avgUnitPrice int64, createdAt time.Time) *models.ValuationRecord {
	t.Helper()

	p := TestProperty()
	snapshot, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("failed to marshal property snapshot: %v", err)
	}

	result := &valuation.ValuationResult{
		UnitPrice:  avgUnitPrice,
		TotalValue: avgPrice,
		Confidence: 90,
		Method:     valuation.MethodMarket,
	}
	results, err := json.Marshal([]*valuation.ValuationResult{result})
	if err != nil {
		t.Fatalf("failed to marshal results: %v", err)
	}

	record := &models.ValuationRecord{
		City:             p.City,
		District:         p.District,
		PropertyType:     string(p.PropertyType),
		Area:             p.Area,
		PropertySnapshot: string(snapshot),
		Results:          string(results),
		AveragePrice:     avgPrice,
		AverageUnitPrice: avgUnitPrice,
		Tags:             fmt.Sprintf("fixture-%d", nextID()),
	}
	record.CreatedAt = createdAt
	record.UpdatedAt = createdAt

	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}
