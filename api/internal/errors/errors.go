package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType is the failure kind of one analysis request.
type ErrorType string

const (
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInvalidInput  ErrorType = "invalid_input"
	ErrorTypeProvider      ErrorType = "provider"
	ErrorTypeFormat        ErrorType = "format"
	ErrorTypeSchema        ErrorType = "schema"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError carries a short caller-safe Message; Cause is for logs only.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewConfigurationError reports a deployment fault such as a missing credential.
func NewConfigurationError(message string, cause error) *AppError {
	return newError(ErrorTypeConfiguration, http.StatusInternalServerError, message, cause)
}

// NewInvalidInputError reports a client error in the request body.
func NewInvalidInputError(message string, cause error) *AppError {
	return newError(ErrorTypeInvalidInput, http.StatusBadRequest, message, cause)
}

// NewProviderError reports a failed or empty model call.
func NewProviderError(message string, cause error) *AppError {
	return newError(ErrorTypeProvider, http.StatusBadGateway, message, cause)
}

// NewFormatError reports model output with no extractable JSON object.
func NewFormatError(message string, cause error) *AppError {
	return newError(ErrorTypeFormat, http.StatusBadGateway, message, cause)
}

// NewSchemaError reports a JSON object missing required fields or types.
func NewSchemaError(message string, cause error) *AppError {
	return newError(ErrorTypeSchema, http.StatusBadGateway, message, cause)
}

func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error (or anything it wraps) is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := asAppError(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// TypeOf returns the error kind, ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	if appErr, ok := asAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := asAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show to the end user.
func PublicMessage(err error) string {
	if appErr, ok := asAppError(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	return "analysis failed"
}
