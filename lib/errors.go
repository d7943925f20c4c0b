package lib

import (
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
)

// ErrorKind classifies caller-correctable failures. Anything outside the
// taxonomy is an internal error and surfaces as a 500.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
)

// RequestError carries the failure kind plus enough detail for the staff
// UI to display (offending table numbers, mismatched totals).
type RequestError struct {
	Kind    ErrorKind      `json:"kind"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *RequestError) Error() string {
	return e.Message
}

// With attaches a display detail and returns the error for chaining.
func (e *RequestError) With(key string, value any) *RequestError {
	if e.Data == nil {
		e.Data = make(map[string]any, 2)
	}
	e.Data[key] = value
	return e
}

func InvalidRequestf(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// AsRequestError unwraps err into a RequestError if it carries one.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing token")
)

// MapDbError translates driver-level failures into the taxonomy where a
// SQLSTATE identifies one; everything else passes through untouched.
func MapDbError(err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') { // SQLSTATE
		case "23505": // unique_violation
			return Conflictf("record already exists")
		case "P0002": // no_data_found
			return NotFoundf("record not found")
		}
	}
	return err
}
