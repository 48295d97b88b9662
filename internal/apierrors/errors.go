package apierrors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes returned in the "code" field.
const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeBodyTooLarge   = "BODY_TOO_LARGE"
	CodeMalformedEvent = "MALFORMED_EVENT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeCallSetup      = "CALL_SETUP_FAILED"
	CodeServiceError   = "UPSTREAM_SERVICE_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// APIError is an error that knows how it should be rendered to the caller.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

func PayloadTooLarge(message string) *APIError {
	return &APIError{StatusCode: http.StatusRequestEntityTooLarge, Code: CodeBodyTooLarge, Message: message}
}

func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// ServiceUnavailable keeps the internal error for logging only.
func ServiceUnavailable(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, Err: err}
}

// InternalError returns a sanitized 500. The wrapped error is never sent to the client.
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}
