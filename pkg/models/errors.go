package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind is the client-facing error taxonomy.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindConflict     ErrorKind = "conflict"
	KindNetwork      ErrorKind = "network"
)

// Error codes carried in AppError.Code
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Sentinels matched by errors.Is against any AppError of the same kind.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict or precondition failed")
	ErrNetwork      = errors.New("network failure")
)

// AppError is the error type every client operation returns.
type AppError struct {
	Kind       ErrorKind `json:"kind"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"` // server-provided message, verbatim
	Field      string    `json:"field,omitempty"`  // offending input for validation errors
	StatusCode int       `json:"status_code,omitempty"`
	Err        error     `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches the kind sentinels.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrNetwork:
		return e.Kind == KindNetwork
	}
	return false
}

// Retryable reports whether the user may retry the action as-is.
func (e *AppError) Retryable() bool {
	return e.Kind == KindNetwork
}

// NewValidationError reports invalid input for field before any remote call.
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// NewConflictError reports a client-detected precondition failure.
func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// NewUnauthorizedError reports a missing credential detected locally.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthorized,
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewNetworkError wraps a transport failure or timeout.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Kind:    KindNetwork,
		Code:    ErrCodeNetwork,
		Message: "network request failed",
		Err:     err,
	}
}

// FromHTTPStatus maps a non-2xx response to the taxonomy. detail is the
// server-provided message, if any.
func FromHTTPStatus(status int, detail string) *AppError {
	e := &AppError{
		StatusCode: status,
		Detail:     detail,
		Message:    http.StatusText(status),
	}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind, e.Code = KindUnauthorized, ErrCodeUnauthorized
	case status == http.StatusUnprocessableEntity:
		e.Kind, e.Code = KindValidation, ErrCodeValidation
	case status == http.StatusNotFound:
		e.Kind, e.Code = KindConflict, ErrCodeNotFound
	case status == http.StatusForbidden:
		e.Kind, e.Code = KindConflict, ErrCodeForbidden
	case status == http.StatusConflict || status == http.StatusPreconditionFailed:
		e.Kind, e.Code = KindConflict, ErrCodeConflict
	case status >= 400 && status < 500:
		e.Kind, e.Code = KindConflict, ErrCodeBadRequest
	default:
		// 5xx and anything unexpected is treated as transient
		e.Kind, e.Code = KindNetwork, ErrCodeServiceUnavailable
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("status %d", status)
	}
	return e
}

// UserMessage picks the text to show for a failed action: the server's own
// message when present, else fallback.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Detail != "" {
			return appErr.Detail
		}
		if appErr.Kind == KindValidation && appErr.Message != "" {
			return appErr.Message
		}
	}
	return fallback
}

// ErrorResponse is the backend's error body. Detail is either a string or a
// list of field errors.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// Message flattens Detail into one line.
func (r ErrorResponse) Message() string {
	if len(r.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Detail, &s); err == nil {
		return s
	}
	var fields []fieldError
	if err := json.Unmarshal(r.Detail, &fields); err == nil {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Msg != "" {
				msgs = append(msgs, f.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
