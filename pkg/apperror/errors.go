package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error so callers can branch on the failure mode
// without string matching.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindInvalidAmount       Kind = "invalid_amount"
	KindInvalidQuantity     Kind = "invalid_quantity"
	KindEmptySale           Kind = "empty_sale"
	KindMissingProduct      Kind = "missing_product"
	KindCreditLimitExceeded Kind = "credit_limit_exceeded"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindBadRequest          Kind = "bad_request"
	KindInternal            Kind = "internal"
)

// AppError represents an application error with an HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid username or password"}
)

// NewNotFoundError reports a missing sale, line, product, payment or customer
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: resource + " not found"}
}

// NewInvalidStateError reports an operation attempted on a sale outside the
// required status
func NewInvalidStateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindInvalidState, Message: message}
}

// NewInvalidAmountError reports a non-finite or out-of-range monetary input
func NewInvalidAmountError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindInvalidAmount, Message: message}
}

// NewInvalidQuantityError reports a non-finite or non-positive quantity
func NewInvalidQuantityError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindInvalidQuantity, Message: message}
}

// NewEmptySaleError reports a finalize attempt on a sale with no lines
func NewEmptySaleError() *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: KindEmptySale, Message: "Cannot finalize empty sale"}
}

// NewMissingProductError reports a line whose product no longer exists
func NewMissingProductError(message string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: KindMissingProduct, Message: message}
}

// NewCreditLimitExceededError reports a finalize that would push a customer
// past their credit limit without an override
func NewCreditLimitExceededError(message string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: KindCreditLimitExceeded, Message: message}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: message}
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: err.Error()}
}
