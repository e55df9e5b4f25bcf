package models

import "net/http"

// ErrorCode represents standard error codes
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrInvalidSide     ErrorCode = "INVALID_SIDE"
	ErrInvalidPrice    ErrorCode = "INVALID_PRICE"
	ErrInvalidQuantity ErrorCode = "INVALID_QUANTITY"
	ErrMissingField    ErrorCode = "MISSING_FIELD"
	ErrInternalError   ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured error response
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPError wraps an APIError with an HTTP status code
type HTTPError struct {
	StatusCode int
	Error      APIError
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, code ErrorCode, message string, details map[string]interface{}) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Error: APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// Common error constructors

func ErrBadRequest(message string, details map[string]interface{}) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidRequest, message, details)
}

func ErrInvalidSideError(providedSide string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidSide,
		"Invalid order side. Must be 'buy' or 'sell'.",
		map[string]interface{}{"provided_value": providedSide})
}

func ErrInvalidPriceError(price string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidPrice,
		"Price must be a decimal greater than 0",
		map[string]interface{}{"field": "price", "provided_value": price})
}

func ErrInvalidQuantityError(quantity string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidQuantity,
		"Quantity must be a decimal greater than 0",
		map[string]interface{}{"field": "quantity", "provided_value": quantity})
}

func ErrMissingFieldError(field string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrMissingField,
		"Missing required field '"+field+"'",
		map[string]interface{}{"field": field})
}

func ErrInternal(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, ErrInternalError, message, nil)
}
