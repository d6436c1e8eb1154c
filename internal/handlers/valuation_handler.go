package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "propval/internal/errors"
	"propval/internal/services"
	"propval/internal/valuation"
)

// ValuationHandler handles valuation requests.
type ValuationHandler struct {
	valuationService services.ValuationServicer
}

// NewValuationHandler creates a new ValuationHandler.
func NewValuationHandler(valuationService services.ValuationServicer) *ValuationHandler {
	return &ValuationHandler{valuationService: valuationService}
}

// PropertyRequest represents the property being appraised.
type PropertyRequest struct {
	Area             float64  `json:"area" binding:"required,gt=0"`
	City             string   `json:"city" binding:"required"`
	District         string   `json:"district" binding:"required"`
	PropertyType     string   `json:"property_type" binding:"required,property_type"`
	DecorationLevel  string   `json:"decoration_level" binding:"required,decoration_level"`
	Orientation      string   `json:"orientation"`
	ConstructionYear int      `json:"construction_year" binding:"required"`
	Floor            int      `json:"floor" binding:"required,gt=0"`
	TotalFloors      int      `json:"total_floors" binding:"required,gt=0"`
	LotRatio         float64  `json:"lot_ratio" binding:"omitempty,gte=0"`
	GreenRatio       float64  `json:"green_ratio" binding:"omitempty,gte=0,lte=100"`
	NearbyFacilities []string `json:"nearby_facilities"`
}

func (r *PropertyRequest) toProperty() *valuation.PropertyInfo {
	return &valuation.PropertyInfo{
		Area:             r.Area,
		City:             r.City,
		District:         r.District,
		PropertyType:     valuation.PropertyType(r.PropertyType),
		DecorationLevel:  valuation.DecorationLevel(r.DecorationLevel),
		Orientation:      r.Orientation,
		ConstructionYear: r.ConstructionYear,
		Floor:            r.Floor,
		TotalFloors:      r.TotalFloors,
		LotRatio:         r.LotRatio,
		GreenRatio:       r.GreenRatio,
		NearbyFacilities: r.NearbyFacilities,
	}
}

// ValuationRequest represents the request payload for a single valuation.
// An empty or unrecognized method falls back to market comparison.
type ValuationRequest struct {
	Property PropertyRequest `json:"property" binding:"required"`
	Method   string          `json:"method"`
	Tags     string          `json:"tags"`
}

// BatchValuationRequest represents the request payload for a batch of valuations.
type BatchValuationRequest struct {
	Items []ValuationRequest `json:"items" binding:"required,min=1,max=50,dive"`
}

// SweepRequest describes one field to vary in a sensitivity analysis.
type SweepRequest struct {
	Field      string    `json:"field" binding:"required"`
	Base       float64   `json:"base"`
	Variations []float64 `json:"variations" binding:"required,min=1"`
}

// SensitivityRequest represents the request payload for a sensitivity analysis.
type SensitivityRequest struct {
	Property PropertyRequest `json:"property" binding:"required"`
	Method   string          `json:"method"`
	Sweeps   []SweepRequest  `json:"sweeps" binding:"required,min=1,dive"`
}

// PerformValuation handles a single property valuation.
// @Summary     Perform a valuation
// @Description Appraise a property using the requested valuation method
// @Tags        valuations
// @Accept      json
// @Produce     json
// @Param       request body ValuationRequest true "Property and method"
// @Success     200 {object} valuation.ValuationResult "Valuation result"
// @Failure     400 {object} ErrorResponse "Invalid property"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /valuations [post]
func (h *ValuationHandler) PerformValuation(c *gin.Context) {
	var req ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, record, err := h.valuationService.Appraise(req.Property.toProperty(), req.Method, req.Tags, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "record_id": record.ID})
}

// BatchValuation handles a batch of property valuations.
// @Summary     Perform valuations in batch
// @Description Appraise up to 50 properties in one request; failed items report their error without aborting the batch
// @Tags        valuations
// @Accept      json
// @Produce     json
// @Param       request body BatchValuationRequest true "Batch items"
// @Success     200 {array} services.BatchOutcome "Per-item outcomes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /valuations/batch [post]
func (h *ValuationHandler) BatchValuation(c *gin.Context) {
	var req BatchValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	items := make([]services.BatchItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = services.BatchItem{
			Property: item.Property.toProperty(),
			Method:   item.Method,
			Tags:     item.Tags,
		}
	}

	outcomes := h.valuationService.AppraiseBatch(items, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

// Sensitivity handles a sensitivity analysis request.
// @Summary     Run a sensitivity analysis
// @Description Vary property fields around a baseline and report the change in total value per variation
// @Tags        valuations
// @Accept      json
// @Produce     json
// @Param       request body SensitivityRequest true "Baseline property and field sweeps"
// @Success     200 {object} valuation.SensitivityReport "Sensitivity report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /valuations/sensitivity [post]
func (h *ValuationHandler) Sensitivity(c *gin.Context) {
	var req SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Sweep order in the response follows the order of the request.
	fields := make([]string, len(req.Sweeps))
	sweeps := make(map[string]valuation.FieldSweep, len(req.Sweeps))
	for i, s := range req.Sweeps {
		fields[i] = s.Field
		sweeps[s.Field] = valuation.FieldSweep{Base: s.Base, Variations: s.Variations}
	}

	report, err := h.valuationService.Sensitivity(req.Property.toProperty(), req.Method, fields, sweeps)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
