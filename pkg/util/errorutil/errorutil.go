package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes surfaced by the front end.
const (
	CodeValidation       = "VALIDATION_FAILED"
	CodeTransport        = "TRANSPORT_FAILED"
	CodeUpstreamRejected = "UPSTREAM_REJECTED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports a local validation failure. No network call was made.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewTransportError wraps a failure that happened before the backend answered.
func NewTransportError(err error) error {
	return &DomainError{
		Code:       CodeTransport,
		Message:    "backend unreachable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewUpstreamError reports a non-success status returned by the backend.
// message is the server-provided message and may be empty.
func NewUpstreamError(status int, message string) error {
	return &DomainError{
		Code:       CodeUpstreamRejected,
		Message:    message,
		HTTPStatus: status,
		Details:    map[string]any{"upstream_status": status},
	}
}

// NewNotFound reports a missing resource.
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DomainError{
			Code:       CodeTransport,
			Message:    "backend unreachable",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return HasCode(err, CodeTransport)
}

// UserMessage returns the server-provided message of an upstream rejection,
// or fallback for every other failure.
func UserMessage(err error, fallback string) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Code == CodeUpstreamRejected {
		if msg := strings.TrimSpace(domainErr.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
