package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "propval/internal/errors"
	"propval/internal/pagination"
	"propval/internal/services"
)

// HistoryHandler handles valuation history requests.
type HistoryHandler struct {
	historyService services.HistoryServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService services.HistoryServicer) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// CompareHistoryRequest represents the request payload for comparing records.
type CompareHistoryRequest struct {
	RecordIDs []string `json:"record_ids" binding:"required,min=2"`
}

// ListHistory handles listing past valuation records.
// @Summary     List valuation history
// @Description Get a paginated list of past valuation records, newest first
// @Tags        history
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size (max 100)"
// @Param       city query string false "Filter by city"
// @Param       district query string false "Filter by district"
// @Param       property_type query string false "Filter by property type"
// @Success     200 {object} pagination.PageResponse[models.ValuationRecord] "Records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /history [get]
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.HistoryFilter
	if city := c.Query("city"); city != "" {
		filter.City = &city
	}
	if district := c.Query("district"); district != "" {
		filter.District = &district
	}
	if pt := c.Query("property_type"); pt != "" {
		filter.PropertyType = &pt
	}

	records, err := h.historyService.List(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetHistory handles retrieving one valuation record with its full results.
// @Summary     Get a valuation record
// @Description Get a past valuation record including the stored property snapshot and per-method results
// @Tags        history
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     200 {object} map[string]interface{} "Record with decoded results"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /history/{id} [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	record, err := h.historyService.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	property, err := record.Property()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	results, err := record.DecodedResults()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":   record,
		"property": property,
		"results":  results,
	})
}

// CompareHistory handles comparing two or more valuation records.
// @Summary     Compare valuation records
// @Description Report price movement between the earliest and latest of the given records
// @Tags        history
// @Accept      json
// @Produce     json
// @Param       request body CompareHistoryRequest true "Record ids"
// @Success     200 {object} services.HistoryComparison "Comparison"
// @Failure     400 {object} ErrorResponse "Fewer than two valid records"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /history/compare [post]
func (h *HistoryHandler) CompareHistory(c *gin.Context) {
	var req CompareHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	comparison, err := h.historyService.Compare(req.RecordIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}
