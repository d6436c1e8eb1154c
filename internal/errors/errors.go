// Package errors provides custom error types for the propval API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Valuation errors.
var (
	ErrValidationFailed = &AppError{Code: "VALIDATION_FAILED", Message: "Property failed validation", StatusCode: http.StatusBadRequest}
)

// Model registry errors.
var (
	ErrModelNotFound    = &AppError{Code: "MODEL_NOT_FOUND", Message: "Valuation model not found", StatusCode: http.StatusNotFound}
	ErrUnknownAlgorithm = &AppError{Code: "UNKNOWN_ALGORITHM", Message: "Unknown valuation algorithm", StatusCode: http.StatusBadRequest}
	ErrModelActive      = &AppError{Code: "MODEL_ACTIVE", Message: "The active model cannot be deleted", StatusCode: http.StatusConflict}
	ErrInvalidWeights   = &AppError{Code: "INVALID_WEIGHTS", Message: "Combined method weights must sum to 1.0", StatusCode: http.StatusBadRequest}
	ErrNoValidModels    = &AppError{Code: "NO_VALID_MODELS", Message: "No valid models to compare", StatusCode: http.StatusBadRequest}
)

// History errors.
var (
	ErrRecordNotFound      = &AppError{Code: "RECORD_NOT_FOUND", Message: "Valuation record not found", StatusCode: http.StatusNotFound}
	ErrInsufficientRecords = &AppError{Code: "INSUFFICIENT_RECORDS", Message: "At least two valuation records are required for comparison", StatusCode: http.StatusBadRequest}
)
