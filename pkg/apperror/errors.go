package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
	ErrEmptyCart          = &AppError{Code: http.StatusUnprocessableEntity, Message: "Please select at least one product"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewProductNotFoundError reports an unknown product code in a cart line
func NewProductNotFoundError(code string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("Product not found (code=%s)", code),
	}
}

// NewInsufficientStockError reports a cart line exceeding available stock
func NewInsufficientStockError(name string, available int) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Not enough stock for %s. Available: %d", name, available),
	}
}

// NewInsufficientPaymentError reports a tendered amount below the invoice total
func NewInsufficientPaymentError(total, paid decimal.Decimal) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Paid amount %s is less than total %s", paid.StringFixed(2), total.StringFixed(2)),
	}
}

// NewInsufficientChangeError reports a till that cannot cover the change owed
func NewInsufficientChangeError(remaining int64) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Not enough denominations to give full change (short by %d)", remaining),
	}
}

// NewInvalidDenominationError reports a face value that is not a positive integer
func NewInvalidDenominationError(value string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Invalid denomination value: %q", value),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
