package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a coded error. Kinds are strings so they read well in
// logs and JSON.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindPermission    Kind = "PERMISSION"
	KindConflict      Kind = "CONFLICT"
	KindNotFound      Kind = "NOT_FOUND"
	KindUnauthorized  Kind = "UNAUTHORIZED"
	KindUnprocessable Kind = "UNPROCESSABLE"
)

// Error is a caller-facing failure with a stable numeric id.
type Error struct {
	Kind Kind
	ID   int
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s #%d: %s", e.Kind, e.ID, e.Text)
}

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// MarshalJSON renders the error body as {"id": .., "text": ..}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Text string `json:"text"`
	}{e.ID, e.Text})
}

func newError(kind Kind, id int, format string, args ...any) *Error {
	return &Error{Kind: kind, ID: id, Text: fmt.Sprintf(format, args...)}
}

func Validation(id int, format string, args ...any) *Error {
	return newError(KindValidation, id, format, args...)
}

func Permission(id int, format string, args ...any) *Error {
	return newError(KindPermission, id, format, args...)
}

func Conflict(id int, format string, args ...any) *Error {
	return newError(KindConflict, id, format, args...)
}

func NotFound(id int, format string, args ...any) *Error {
	return newError(KindNotFound, id, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, 0, format, args...)
}

func Unprocessable(id int, format string, args ...any) *Error {
	return newError(KindUnprocessable, id, format, args...)
}

// AsError extracts a coded error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf is the HTTP status for any error. Uncoded errors are fatal.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if e, ok := AsError(err); ok {
		return e.Status()
	}
	return http.StatusInternalServerError
}
