package apierror

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeStore        = "STORE_ERROR"
)

type APIError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Details    []string `json:"errors,omitempty"`
	HTTPStatus int      `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.Details, "; "))
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, status int, details ...string) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Validation reports malformed input.
func Validation(message string, details ...string) *APIError {
	return New(CodeValidation, message, http.StatusBadRequest, details...)
}

// Conflict reports a duplicate email or role name. Duplicates are client
// errors at the API surface, so the status stays 400.
func Conflict(message string) *APIError {
	return New(CodeConflict, message, http.StatusBadRequest)
}

func NotFound(message string) *APIError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Unauthorized(message string) *APIError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

// Store reports a persistence failure using the store's own descriptions.
func Store(message string, details ...string) *APIError {
	return New(CodeStore, message, http.StatusBadRequest, details...)
}

// Is matches on code so callers can use errors.Is against a template error.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}
