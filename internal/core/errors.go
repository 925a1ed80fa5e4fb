// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrUpgradeRequired = errors.New("upgrade required")
)

// AppError is the error envelope every handler speaks. Code is a stable
// machine-readable identifier, Message is safe to show to the user.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func BadRequestError(message string) *AppError {
	return NewAppError("BAD_REQUEST", message, http.StatusBadRequest)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		"NOT_FOUND",
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
	)
}

func ConflictError(message string) *AppError {
	return NewAppError("CONFLICT", message, http.StatusConflict)
}

// UpgradeRequiredError is the paywall signal: the operation exists but is
// gated behind the Pro entitlement.
func UpgradeRequiredError(message string) *AppError {
	return NewAppError(
		"UPGRADE_REQUIRED",
		message,
		http.StatusPaymentRequired,
	)
}

// AINotConfiguredError means the assistant cannot run at all (missing or
// malformed API key), as opposed to a transient upstream failure.
func AINotConfiguredError(message string) *AppError {
	return NewAppError(
		"AI_NOT_CONFIGURED",
		message,
		http.StatusServiceUnavailable,
	)
}

func AIUnavailableError(message string) *AppError {
	return NewAppError("AI_UNAVAILABLE", message, http.StatusBadGateway)
}

func InternalError() *AppError {
	return NewAppError(
		"INTERNAL_ERROR",
		"an unexpected error occurred",
		http.StatusInternalServerError,
	)
}
