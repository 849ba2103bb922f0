package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"sickstat/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an inner AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the error code if err is or wraps an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeMalformedData     = "MALFORMED_DATA"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeDegenerateData    = "DEGENERATE_DATA"
	CodeInvalidParameters = "INVALID_PARAMETERS"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func PayloadTooLarge(limit int64) *AppError {
	return New(CodePayloadTooLarge, fmt.Sprintf("upload exceeds %d bytes", limit))
}

// FromDomain classifies a domain error into an AppError whose message tells the
// analyst what to change: the file, the filters, or the parameters.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, core.ErrMalformedRecord):
		return &AppError{Code: CodeMalformedData, Message: "the data file is malformed", Cause: err}
	case stderrors.Is(err, core.ErrInsufficientSample):
		return &AppError{Code: CodeInsufficientData, Message: "the current filters leave too little data to compare", Cause: err}
	case stderrors.Is(err, core.ErrDegenerateVariance):
		return &AppError{Code: CodeDegenerateData, Message: "every value in both groups is identical, so the groups cannot be compared", Cause: err}
	case stderrors.Is(err, core.ErrInvalidBounds):
		return &AppError{Code: CodeInvalidParameters, Message: "a range, threshold or alpha is out of its allowed domain", Cause: err}
	}
	return &AppError{Code: CodeInternalError, Message: "internal error", Cause: err}
}

// HTTPStatus maps an error code onto the status the API answers with
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidInput, CodeInvalidParameters:
		return http.StatusBadRequest
	case CodeMalformedData, CodeInsufficientData, CodeDegenerateData:
		return http.StatusUnprocessableEntity
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
