// Package errors provides custom error types for the Shallowfind scenario API.
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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Scenario errors. Ownership failures surface as the same not-found sentinel
// so non-owners cannot probe for existing scenario IDs.
var (
	ErrScenarioNotFound        = &AppError{Code: "SCENARIO_NOT_FOUND", Message: "Scenario not found", StatusCode: http.StatusNotFound}
	ErrInvalidStatusTransition = &AppError{Code: "INVALID_STATUS_TRANSITION", Message: "Scenario status can only move forward (draft, active, archived)", StatusCode: http.StatusConflict}
	ErrDuplicateShare          = &AppError{Code: "DUPLICATE_SHARE", Message: "Scenario is already shared with this user", StatusCode: http.StatusConflict}
	ErrShareNotFound           = &AppError{Code: "SHARE_NOT_FOUND", Message: "Scenario share not found", StatusCode: http.StatusNotFound}
)

// Investment type errors.
var (
	ErrInvestmentTypeNotFound = &AppError{Code: "INVESTMENT_TYPE_NOT_FOUND", Message: "Investment type not found", StatusCode: http.StatusNotFound}
	ErrInvestmentTypeInUse    = &AppError{Code: "INVESTMENT_TYPE_IN_USE", Message: "Investment type is used by existing investments", StatusCode: http.StatusConflict}
)

// Investment errors.
var (
	ErrInvestmentNotFound = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
)

// Event series errors.
var (
	ErrEventSeriesNotFound        = &AppError{Code: "EVENT_SERIES_NOT_FOUND", Message: "Event series not found", StatusCode: http.StatusNotFound}
	ErrReferenceEventNotFound     = &AppError{Code: "REFERENCE_EVENT_NOT_FOUND", Message: "Referenced event series not found in this scenario", StatusCode: http.StatusNotFound}
	ErrEventSeriesCycle           = &AppError{Code: "EVENT_SERIES_CYCLE", Message: "Event series reference chain must not form a cycle", StatusCode: http.StatusBadRequest}
	ErrEventSeriesInUse           = &AppError{Code: "EVENT_SERIES_IN_USE", Message: "Event series is referenced by other event series", StatusCode: http.StatusConflict}
	ErrActiveInvestEventExists    = &AppError{Code: "ACTIVE_INVEST_EVENT_EXISTS", Message: "Scenario may not contain overlapping invest event series", StatusCode: http.StatusConflict}
	ErrActiveRebalanceEventExists = &AppError{Code: "ACTIVE_REBALANCE_EVENT_EXISTS", Message: "Scenario may not contain overlapping rebalance event series for this tax status", StatusCode: http.StatusConflict}
)

// Strategy errors.
var (
	ErrStrategyNotFound    = &AppError{Code: "STRATEGY_NOT_FOUND", Message: "Strategy not found", StatusCode: http.StatusNotFound}
	ErrOrderingRefNotFound = &AppError{Code: "ORDERING_REFERENCE_NOT_FOUND", Message: "One or more ids in ordering do not resolve in this scenario", StatusCode: http.StatusNotFound}
)
