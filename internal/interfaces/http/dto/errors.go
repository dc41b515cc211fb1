package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "INVALID_INPUT"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeTooLarge   = "REQUEST_TOO_LARGE"
	ErrCodeRateLimit  = "RATE_LIMITED"
)

// Authentication and authorization error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
	ErrCodeForbidden          = "FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeAlreadyExists   = "ALREADY_EXISTS"
	ErrCodeLastAdmin       = "LAST_ADMIN"
	ErrCodeInvalidState    = "INVALID_STATE"
)

// Sales error codes
const (
	ErrCodeEmptySale         = "EMPTY_SALE"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidCustomer   = "INVALID_CUSTOMER"
	ErrCodeInvalidReceipt    = "INVALID_RECEIPT"
	ErrCodeInvalidPrice      = "INVALID_PRICE"
	ErrCodeInvalidStock      = "INVALID_STOCK"
)

// Field-level error codes raised by entity constructors
const (
	ErrCodeInvalidName     = "INVALID_NAME"
	ErrCodeInvalidUsername = "INVALID_USERNAME"
	ErrCodeInvalidEmail    = "INVALID_EMAIL"
	ErrCodeInvalidPassword = "INVALID_PASSWORD"
	ErrCodeInvalidRole     = "INVALID_ROLE"
	ErrCodeInvalidSettings = "INVALID_SETTINGS"
)

// Optional feature error codes
const (
	ErrCodePrintingDisabled = "PRINTING_DISABLED"
	ErrCodeArchiveDisabled  = "ARCHIVE_DISABLED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeTooLarge:   http.StatusRequestEntityTooLarge,
	ErrCodeRateLimit:  http.StatusTooManyRequests,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeProductNotFound: http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeLastAdmin:       http.StatusConflict,
	ErrCodeInvalidState:    http.StatusConflict,

	ErrCodeEmptySale:         http.StatusBadRequest,
	ErrCodeInvalidQuantity:   http.StatusBadRequest,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeInvalidCustomer:   http.StatusBadRequest,
	ErrCodeInvalidReceipt:    http.StatusBadRequest,
	ErrCodeInvalidPrice:      http.StatusBadRequest,
	ErrCodeInvalidStock:      http.StatusBadRequest,

	ErrCodeInvalidName:     http.StatusBadRequest,
	ErrCodeInvalidUsername: http.StatusBadRequest,
	ErrCodeInvalidEmail:    http.StatusBadRequest,
	ErrCodeInvalidPassword: http.StatusBadRequest,
	ErrCodeInvalidRole:     http.StatusBadRequest,
	ErrCodeInvalidSettings: http.StatusBadRequest,

	ErrCodePrintingDisabled: http.StatusServiceUnavailable,
	ErrCodeArchiveDisabled:  http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether code maps to a 4xx status
func IsClientError(code string) bool {
	status := GetHTTPStatus(code)
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
