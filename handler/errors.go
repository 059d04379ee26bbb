package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

var (
	ErrNilResponse       = errors.New("handler returned nil response")
	ErrSSENotInitialized = errors.New("SSE not initialized for this request")
)

// HTTPError carries a status code and a translation key for the message.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "errors.bad_request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Key: "errors.unauthorized"}
	ErrForbidden           = HTTPError{Code: http.StatusForbidden, Key: "errors.forbidden"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "errors.not_found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Key: "errors.conflict"}
	ErrUnprocessableEntity = HTTPError{Code: http.StatusUnprocessableEntity, Key: "errors.unprocessable_entity"}
	ErrTooManyRequests     = HTTPError{Code: http.StatusTooManyRequests, Key: "errors.too_many_requests"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "errors.internal"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "errors.service_unavailable"}
)

// ValidationError maps field names to messages.
type ValidationError url.Values

func NewValidationError() ValidationError {
	return make(ValidationError)
}

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if msgs := e[field]; len(msgs) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msgs[0]))
		}
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}
