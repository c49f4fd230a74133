package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"go_gizmo/internal/dns"
)

// Business error codes
const (
	CodeSuccess = 0

	// Authentication/Authorization errors (1000-1099)
	CodeUnauthorized = 1001 // not logged in, token missing
	CodeInvalidToken = 1002
	CodeTokenExpired = 1003
	CodeForbidden    = 1004

	// Parameter errors (2000-2099)
	CodeParamMissing = 2001
	CodeParamInvalid = 2002

	// Resource/Business errors (3000-3999)
	CodeNotFound      = 3001
	CodeStateConflict = 3003 // current state does not allow the operation

	// System errors (5000-5999)
	CodeInternalError        = 5001
	CodeDatabaseError        = 5002
	CodeExternalError        = 5003 // DNS provider call failed
	CodeProviderUnresolvable = 5004 // no adapter registered for the provider
)

// AppError represents an application error with HTTP status and business code
type AppError struct {
	HTTPStatus int
	Code       int
	Message    string // returned to the client
	Err        error  // logged only
	Data       interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code=%d, message=%s, err=%v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code=%d, message=%s", e.Code, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithData adds additional data to the error
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

// NewAppError creates a new AppError
func NewAppError(httpStatus, code int, message string, err error) *AppError {
	return &AppError{
		HTTPStatus: httpStatus,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// ErrUnauthorized creates a 401 unauthorized error
func ErrUnauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, orDefault(message, "unauthorized"), nil)
}

// ErrInvalidToken creates a 401 invalid token error
func ErrInvalidToken(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidToken, orDefault(message, "invalid token"), nil)
}

// ErrTokenExpired creates a 401 token expired error
func ErrTokenExpired(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeTokenExpired, orDefault(message, "token expired"), nil)
}

// ErrForbidden creates a 403 forbidden error
func ErrForbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, orDefault(message, "forbidden"), nil)
}

// ErrParamMissing creates a 400 parameter missing error
func ErrParamMissing(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeParamMissing, orDefault(message, "parameter missing"), nil)
}

// ErrParamInvalid creates a 400 parameter invalid error
func ErrParamInvalid(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeParamInvalid, orDefault(message, "parameter format error"), nil)
}

// ErrNotFound creates a 404 not found error
func ErrNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, orDefault(message, "resource not found"), nil)
}

// ErrStateConflict creates a 409 state conflict error
func ErrStateConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeStateConflict, orDefault(message, "current state does not allow operation"), nil)
}

// ErrInternalError creates a 500 internal error
func ErrInternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, orDefault(message, "internal error"), err)
}

// ErrDatabaseError creates a 500 database error
func ErrDatabaseError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeDatabaseError, orDefault(message, "database error"), err)
}

// ErrExternalError creates a 502 external dependency error
func ErrExternalError(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeExternalError, orDefault(message, "external dependency failure"), err)
}

// FromDNSError maps errors returned by the dns facade to an AppError
func FromDNSError(err error) *AppError {
	var appErr *AppError
	var callErr *dns.CallError
	var unresolvable *dns.UnresolvableError
	var unimplemented *dns.UnimplementedError

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound("")
	case errors.Is(err, dns.ErrRecordInactive):
		return NewAppError(http.StatusConflict, CodeStateConflict, "record is inactive", err)
	case errors.As(err, &unresolvable):
		return NewAppError(http.StatusInternalServerError, CodeProviderUnresolvable,
			fmt.Sprintf("DNS provider %q is not supported", unresolvable.Name), err)
	case errors.As(err, &unimplemented):
		return NewAppError(http.StatusNotImplemented, CodeExternalError,
			fmt.Sprintf("%s does not support %s", unimplemented.Provider, unimplemented.Operation), err)
	case errors.Is(err, dns.ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, "record or domain not found at provider", err)
	case errors.As(err, &callErr):
		return ErrExternalError(orDefault(callErr.Message, "DNS provider call failed"), err)
	default:
		return ErrInternalError("", err)
	}
}
