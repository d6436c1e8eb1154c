package services

import (
	"time"

	"propval/internal/models"
	"propval/internal/pagination"
	"propval/internal/valuation"
)

// BatchItem is one property to appraise within a batch request.
type BatchItem struct {
	Property *valuation.PropertyInfo
	Method   string
	Tags     string
}

// BatchOutcome holds the result of one batch item. Exactly one of Result
// and Error is set; a failed item never aborts the rest of the batch.
type BatchOutcome struct {
	Index  int                        `json:"index"`
	Result *valuation.ValuationResult `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

// ValuationServicer defines the contract for valuation business logic.
type ValuationServicer interface {
	Appraise(p *valuation.PropertyInfo, method, tags, ipAddress string) (*valuation.ValuationResult, *models.ValuationRecord, error)
	AppraiseBatch(items []BatchItem, ipAddress string) []BatchOutcome
	Sensitivity(p *valuation.PropertyInfo, method string, fields []string, sweeps map[string]valuation.FieldSweep) (*valuation.SensitivityReport, error)
}

// ModelServicer defines the contract for valuation model management.
type ModelServicer interface {
	Register(cfg valuation.ModelConfig, ipAddress string) (*valuation.Model, error)
	Update(id string, patch valuation.ModelPatch, ipAddress string) (*valuation.Model, error)
	Delete(id, ipAddress string) error
	SetActive(id, ipAddress string) (*valuation.Model, error)
	Get(id string) (*valuation.Model, error)
	List() []*valuation.Model
	Calculate(id string, p *valuation.PropertyInfo) (*valuation.ValuationResult, error)
	Compare(ids []string, p *valuation.PropertyInfo) (*valuation.ModelComparison, error)
	Export(id string) (string, error)
	Import(data, ipAddress string) (*valuation.Model, error)
}

// TrendEntry is one point of the chronological average price series.
type TrendEntry struct {
	RecordID         string    `json:"record_id"`
	CreatedAt        time.Time `json:"created_at"`
	AveragePrice     int64     `json:"average_price"`
	AverageUnitPrice int64     `json:"average_unit_price"`
}

// ComparisonPeriod bounds the records being compared.
type ComparisonPeriod struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Days int       `json:"days"`
}

// HistoryComparison reports how valuations moved between the earliest and
// latest of the compared records.
type HistoryComparison struct {
	PriceChange           int64            `json:"price_change"`
	UnitPriceChange       int64            `json:"unit_price_change"`
	PriceChangePercentage float64          `json:"price_change_percentage"`
	Period                ComparisonPeriod `json:"period"`
	AveragePriceTrend     []TrendEntry     `json:"average_price_trend"`
}

// HistoryFilter holds optional filter parameters for listing records.
type HistoryFilter struct {
	City         *string
	District     *string
	PropertyType *string
}

// HistoryServicer defines the contract for valuation history access.
type HistoryServicer interface {
	List(page pagination.PageRequest, filter HistoryFilter) (*pagination.PageResponse[models.ValuationRecord], error)
	GetByID(id string) (*models.ValuationRecord, error)
	Compare(ids []string) (*HistoryComparison, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
