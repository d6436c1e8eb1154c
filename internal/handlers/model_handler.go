package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "propval/internal/errors"
	"propval/internal/services"
	"propval/internal/valuation"
)

// ModelHandler handles valuation model management requests.
type ModelHandler struct {
	modelService services.ModelServicer
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(modelService services.ModelServicer) *ModelHandler {
	return &ModelHandler{modelService: modelService}
}

// RegisterModelRequest represents the request payload for registering a model.
type RegisterModelRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=100"`
	Description string             `json:"description"`
	Algorithm   string             `json:"algorithm" binding:"required,valuation_algorithm"`
	Parameters  map[string]float64 `json:"parameters"`
}

// UpdateModelRequest represents the request payload for updating a model.
type UpdateModelRequest struct {
	Name        *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string            `json:"description"`
	Algorithm   *string            `json:"algorithm" binding:"omitempty,valuation_algorithm"`
	Parameters  map[string]float64 `json:"parameters"`
}

// CompareModelsRequest represents the request payload for comparing models.
type CompareModelsRequest struct {
	ModelIDs []string        `json:"model_ids" binding:"required,min=1"`
	Property PropertyRequest `json:"property" binding:"required"`
}

// CalculateRequest represents the request payload for running one model.
type CalculateRequest struct {
	Property PropertyRequest `json:"property" binding:"required"`
}

// ImportModelRequest represents the request payload for importing a model.
type ImportModelRequest struct {
	Data string `json:"data" binding:"required"`
}

// RegisterModel handles registering a new valuation model.
// @Summary     Register a model
// @Description Register a new valuation model; models start inactive
// @Tags        models
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RegisterModelRequest true "Model configuration"
// @Success     201 {object} valuation.Model "Model created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /models [post]
func (h *ModelHandler) RegisterModel(c *gin.Context) {
	var req RegisterModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	model, err := h.modelService.Register(valuation.ModelConfig{
		Name:        req.Name,
		Description: req.Description,
		Algorithm:   req.Algorithm,
		Parameters:  req.Parameters,
	}, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"model": model})
}

// ListModels handles listing all registered models.
// @Summary     List models
// @Description List every registered valuation model, oldest first
// @Tags        models
// @Produce     json
// @Success     200 {array} valuation.Model "Models"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /models [get]
func (h *ModelHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.modelService.List()})
}

// GetModel handles retrieving one model by id.
// @Summary     Get a model
// @Description Get a valuation model by id
// @Tags        models
// @Produce     json
// @Param       id path string true "Model ID"
// @Success     200 {object} valuation.Model "Model"
// @Failure     404 {object} ErrorResponse "Model not found"
// @Router      /models/{id} [get]
func (h *ModelHandler) GetModel(c *gin.Context) {
	model, err := h.modelService.Get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model})
}

// UpdateModel handles updating a model.
// @Summary     Update a model
// @Description Merge the patch into the model and bump its update time
// @Tags        models
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Model ID"
// @Param       request body UpdateModelRequest true "Fields to update"
// @Success     200 {object} valuation.Model "Updated model"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Model not found"
// @Router      /models/{id} [put]
func (h *ModelHandler) UpdateModel(c *gin.Context) {
	var req UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	model, err := h.modelService.Update(c.Param("id"), valuation.ModelPatch{
		Name:        req.Name,
		Description: req.Description,
		Algorithm:   req.Algorithm,
		Parameters:  req.Parameters,
	}, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"model": model})
}

// DeleteModel handles deleting a model.
// @Summary     Delete a model
// @Description Delete a valuation model; the active model cannot be deleted
// @Tags        models
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Model ID"
// @Success     204 "Model deleted"
// @Failure     404 {object} ErrorResponse "Model not found"
// @Failure     409 {object} ErrorResponse "Model is active"
// @Router      /models/{id} [delete]
func (h *ModelHandler) DeleteModel(c *gin.Context) {
	if err := h.modelService.Delete(c.Param("id"), c.ClientIP()); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActivateModel handles activating a model.
// @Summary     Activate a model
// @Description Activate the model, atomically deactivating all others
// @Tags        models
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Model ID"
// @Success     200 {object} valuation.Model "Activated model"
// @Failure     404 {object} ErrorResponse "Model not found"
// @Router      /models/{id}/activate [post]
func (h *ModelHandler) ActivateModel(c *gin.Context) {
	model, err := h.modelService.SetActive(c.Param("id"), c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model})
}

// CalculateWithModel handles running one model against a property.
// @Summary     Calculate with a model
// @Description Appraise a property using the method named by the model's algorithm
// @Tags        models
// @Accept      json
// @Produce     json
// @Param       id path string true "Model ID"
// @Param       request body CalculateRequest true "Property"
// @Success     200 {object} valuation.ValuationResult "Valuation result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Model not found"
// @Router      /models/{id}/calculate [post]
func (h *ModelHandler) CalculateWithModel(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.modelService.Calculate(c.Param("id"), req.Property.toProperty())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// CompareModels handles running several models against the same property.
// @Summary     Compare models
// @Description Run each model against the property and report per-model deviation from the average
// @Tags        models
// @Accept      json
// @Produce     json
// @Param       request body CompareModelsRequest true "Model ids and property"
// @Success     200 {object} valuation.ModelComparison "Comparison"
// @Failure     400 {object} ErrorResponse "No valid models"
// @Router      /models/compare [post]
func (h *ModelHandler) CompareModels(c *gin.Context) {
	var req CompareModelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	comparison, err := h.modelService.Compare(req.ModelIDs, req.Property.toProperty())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// ExportModel handles exporting a model's configuration.
// @Summary     Export a model
// @Description Export a model's configuration as a portable JSON document
// @Tags        models
// @Produce     json
// @Param       id path string true "Model ID"
// @Success     200 {object} map[string]string "Exported configuration"
// @Failure     404 {object} ErrorResponse "Model not found"
// @Router      /models/{id}/export [get]
func (h *ModelHandler) ExportModel(c *gin.Context) {
	data, err := h.modelService.Export(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// ImportModel handles importing a model from an exported document.
// @Summary     Import a model
// @Description Create a model from an exported document with a fresh id, starting inactive
// @Tags        models
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ImportModelRequest true "Exported configuration"
// @Success     201 {object} valuation.Model "Imported model"
// @Failure     400 {object} ErrorResponse "Invalid configuration"
// @Router      /models/import [post]
func (h *ModelHandler) ImportModel(c *gin.Context) {
	var req ImportModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	model, err := h.modelService.Import(req.Data, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"model": model})
}
