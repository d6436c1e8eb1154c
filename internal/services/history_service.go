package services

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	apperrors "propval/internal/errors"
	"propval/internal/models"
	"propval/internal/pagination"
)

// historyService handles read access to past valuation records.
type historyService struct {
	db *gorm.DB
}

// NewHistoryService creates a new HistoryServicer.
func NewHistoryService(db *gorm.DB) HistoryServicer {
	return &historyService{db: db}
}

// List retrieves a paginated list of valuation records, newest first.
func (s *historyService) List(page pagination.PageRequest, filter HistoryFilter) (*pagination.PageResponse[models.ValuationRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.ValuationRecord{})
	if filter.City != nil {
		base = base.Where("city = ?", *filter.City)
	}
	if filter.District != nil {
		base = base.Where("district = ?", *filter.District)
	}
	if filter.PropertyType != nil {
		base = base.Where("property_type = ?", *filter.PropertyType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.ValuationRecord
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetByID retrieves a single valuation record.
func (s *historyService) GetByID(id string) (*models.ValuationRecord, error) {
	var record models.ValuationRecord
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// Compare reports how average prices moved across the given records.
// Unknown ids are skipped; fewer than two resolvable records is an error,
// never a zeroed-out result.
func (s *historyService) Compare(ids []string) (*HistoryComparison, error) {
	if len(ids) < 2 {
		return nil, apperrors.ErrInsufficientRecords
	}

	var records []models.ValuationRecord
	if err := s.db.Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(records) < 2 {
		return nil, apperrors.ErrInsufficientRecords
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	first := records[0]
	last := records[len(records)-1]

	priceChange := last.AveragePrice - first.AveragePrice
	unitPriceChange := last.AverageUnitPrice - first.AverageUnitPrice

	var pct float64
	if first.AveragePrice != 0 {
		pct = float64(priceChange) / float64(first.AveragePrice) * 100
	}

	trend := make([]TrendEntry, len(records))
	for i, r := range records {
		trend[i] = TrendEntry{
			RecordID:         r.ID,
			CreatedAt:        r.CreatedAt,
			AveragePrice:     r.AveragePrice,
			AverageUnitPrice: r.AverageUnitPrice,
		}
	}

	return &HistoryComparison{
		PriceChange:           priceChange,
		UnitPriceChange:       unitPriceChange,
		PriceChangePercentage: pct,
		Period: ComparisonPeriod{
			From: first.CreatedAt,
			To:   last.CreatedAt,
			Days: int(last.CreatedAt.Sub(first.CreatedAt).Hours() / 24),
		},
		AveragePriceTrend: trend,
	}, nil
}
