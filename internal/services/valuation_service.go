package services

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	apperrors "propval/internal/errors"
	"propval/internal/logger"
	"propval/internal/models"
	"propval/internal/valuation"
)

// valuationService handles valuation business logic.
type valuationService struct {
	db     *gorm.DB
	engine *valuation.Engine
	audit  AuditServicer
}

// NewValuationService creates a new ValuationServicer.
func NewValuationService(db *gorm.DB, engine *valuation.Engine, audit AuditServicer) ValuationServicer {
	return &valuationService{db: db, engine: engine, audit: audit}
}

// Appraise validates the property, runs the requested method, enriches the
// result with comparables, trend, and factor breakdown, and persists a
// valuation record. Unknown method names fall back to market comparison.
func (s *valuationService) Appraise(p *valuation.PropertyInfo, method, tags, ipAddress string) (*valuation.ValuationResult, *models.ValuationRecord, error) {
	m := valuation.MethodOrDefault(method)

	result, err := s.engine.Appraise(p, m)
	if err != nil {
		return nil, nil, mapValuationError(err)
	}
	s.engine.Enrich(p, result)

	record, err := s.persist(p, []*valuation.ValuationResult{result}, tags)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Log("valuation.perform", "valuation_record", record.ID, ipAddress, map[string]interface{}{
		"method":     string(result.Method),
		"city":       p.City,
		"total":      result.TotalValue,
		"confidence": result.Confidence,
	})

	return result, record, nil
}

// AppraiseBatch runs each item independently. A failed item records its
// error message and never aborts the rest of the batch.
func (s *valuationService) AppraiseBatch(items []BatchItem, ipAddress string) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(items))
	for i, item := range items {
		result, _, err := s.Appraise(item.Property, item.Method, item.Tags, ipAddress)
		outcomes[i] = BatchOutcome{Index: i}
		if err != nil {
			outcomes[i].Error = err.Error()
			continue
		}
		outcomes[i].Result = result
	}
	return outcomes
}

// Sensitivity sweeps the given fields around the base property and reports
// the change in total value per variation.
func (s *valuationService) Sensitivity(p *valuation.PropertyInfo, method string, fields []string, sweeps map[string]valuation.FieldSweep) (*valuation.SensitivityReport, error) {
	m := valuation.MethodOrDefault(method)

	report, err := s.engine.Sensitivity(p, m, fields, sweeps)
	if err != nil {
		var cfgErr *valuation.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, cfgErr.Reason)
		}
		return nil, mapValuationError(err)
	}
	return report, nil
}

// persist stores the property snapshot and results as a history record.
func (s *valuationService) persist(p *valuation.PropertyInfo, results []*valuation.ValuationResult, tags string) (*models.ValuationRecord, error) {
	snapshot, err := json.Marshal(p)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	encoded, err := json.Marshal(results)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalSum, unitSum int64
	for _, r := range results {
		totalSum += r.TotalValue
		unitSum += r.UnitPrice
	}
	n := int64(len(results))

	record := &models.ValuationRecord{
		City:             p.City,
		District:         p.District,
		PropertyType:     string(p.PropertyType),
		Area:             p.Area,
		PropertySnapshot: string(snapshot),
		Results:          string(encoded),
		AveragePrice:     totalSum / n,
		AverageUnitPrice: unitSum / n,
		Tags:             tags,
	}

	if err := s.db.Create(record).Error; err != nil {
		logger.Get().Errorw("failed to persist valuation record", "error", err, "city", p.City)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// mapValuationError converts core valuation errors into AppErrors so
// handlers respond with consistent codes and status.
func mapValuationError(err error) error {
	var valErr *valuation.ValidationError
	if errors.As(err, &valErr) {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, valErr.Error())
	}
	var modelErr *valuation.UnknownModelError
	if errors.As(err, &modelErr) {
		return apperrors.WithMessage(apperrors.ErrModelNotFound, modelErr.Error())
	}
	var algoErr *valuation.UnknownAlgorithmError
	if errors.As(err, &algoErr) {
		return apperrors.WithMessage(apperrors.ErrUnknownAlgorithm, algoErr.Error())
	}
	var activeErr *valuation.ActiveModelError
	if errors.As(err, &activeErr) {
		return apperrors.ErrModelActive
	}
	var cfgErr *valuation.ConfigError
	if errors.As(err, &cfgErr) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, cfgErr.Reason)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
