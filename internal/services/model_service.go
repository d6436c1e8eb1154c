package services

import (
	"errors"

	apperrors "propval/internal/errors"
	"propval/internal/valuation"
)

// modelService handles valuation model management.
type modelService struct {
	registry *valuation.Registry
	audit    AuditServicer
}

// NewModelService creates a new ModelServicer.
func NewModelService(registry *valuation.Registry, audit AuditServicer) ModelServicer {
	return &modelService{registry: registry, audit: audit}
}

// Register creates a new model. New models are never active until
// explicitly activated.
func (s *modelService) Register(cfg valuation.ModelConfig, ipAddress string) (*valuation.Model, error) {
	model, err := s.registry.Register(cfg)
	if err != nil {
		return nil, mapValuationError(err)
	}
	s.audit.Log("model.register", "valuation_model", model.ID, ipAddress, map[string]interface{}{
		"name":      model.Name,
		"algorithm": string(model.Algorithm),
	})
	return model, nil
}

// Update merges the patch into the model and bumps its update time.
func (s *modelService) Update(id string, patch valuation.ModelPatch, ipAddress string) (*valuation.Model, error) {
	model, err := s.registry.Update(id, patch)
	if err != nil {
		return nil, mapValuationError(err)
	}
	s.audit.Log("model.update", "valuation_model", model.ID, ipAddress, nil)
	return model, nil
}

// Delete removes a model. The active model cannot be deleted.
func (s *modelService) Delete(id, ipAddress string) error {
	if err := s.registry.Delete(id); err != nil {
		return mapValuationError(err)
	}
	s.audit.Log("model.delete", "valuation_model", id, ipAddress, nil)
	return nil
}

// SetActive activates the model, deactivating all others atomically.
func (s *modelService) SetActive(id, ipAddress string) (*valuation.Model, error) {
	model, err := s.registry.SetActive(id)
	if err != nil {
		return nil, mapValuationError(err)
	}
	s.audit.Log("model.activate", "valuation_model", model.ID, ipAddress, nil)
	return model, nil
}

// Get retrieves a model by id.
func (s *modelService) Get(id string) (*valuation.Model, error) {
	model, err := s.registry.Get(id)
	if err != nil {
		return nil, mapValuationError(err)
	}
	return model, nil
}

// List returns every registered model ordered by creation time.
func (s *modelService) List() []*valuation.Model {
	return s.registry.List()
}

// Calculate runs the property through the method named by the model's
// algorithm field.
func (s *modelService) Calculate(id string, p *valuation.PropertyInfo) (*valuation.ValuationResult, error) {
	result, err := s.registry.Calculate(id, p)
	if err != nil {
		// Configuration errors on this path mean bad combined weights.
		var cfgErr *valuation.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidWeights, cfgErr.Reason)
		}
		return nil, mapValuationError(err)
	}
	return result, nil
}

// Compare runs each model against the property and reports per-model
// deviation from the average. Unknown ids are skipped; if no id resolves
// the comparison fails rather than returning zeros.
func (s *modelService) Compare(ids []string, p *valuation.PropertyInfo) (*valuation.ModelComparison, error) {
	comparison, err := s.registry.Compare(ids, p)
	if err != nil {
		var cfgErr *valuation.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, apperrors.WithMessage(apperrors.ErrNoValidModels, cfgErr.Reason)
		}
		return nil, mapValuationError(err)
	}
	return comparison, nil
}

// Export serializes a model to a portable JSON document.
func (s *modelService) Export(id string) (string, error) {
	data, err := s.registry.Export(id)
	if err != nil {
		return "", mapValuationError(err)
	}
	return data, nil
}

// Import creates a model from an exported document. Imported models get a
// fresh id and start inactive.
func (s *modelService) Import(data, ipAddress string) (*valuation.Model, error) {
	model, err := s.registry.Import(data)
	if err != nil {
		return nil, mapValuationError(err)
	}
	s.audit.Log("model.import", "valuation_model", model.ID, ipAddress, map[string]interface{}{
		"name": model.Name,
	})
	return model, nil
}
