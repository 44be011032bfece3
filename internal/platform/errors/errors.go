// Package errors is the project error type: a code for machines, a message
// for people and an optional field for validation failures
package errors

// import as perr

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error; the numeric values are part of the wire format
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
)

var httpStatus = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
}

// Status is the HTTP status for c; anything unmapped is a 500
func (c ErrorCode) Status() int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrNotFound is the shared not found sentinel
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a message and optionally a field, an op label and a cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is what the API puts on the wire for an error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig != nil:
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error   { return e.orig }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Op() string      { return e.op }
func (e *Error) ToWire() Wire    { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

func (e *Error) with(f func(*Error)) error {
	c := *e
	f(&c)
	return &c
}

// WireFrom renders any error; foreign errors become Unknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// As finds the first *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the first *Error in the chain, Unknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a status code
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// WithField returns a copy of err naming the offending field; foreign errors pass through
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		return e.with(func(c *Error) { c.field = field })
	}
	return err
}

// WithOp returns a copy of err labelled with the operation; foreign errors pass through
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		return e.with(func(c *Error) { c.op = op })
	}
	return err
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap keeps orig as the cause
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error   { return Newf(ErrorCodeInvalidArgument, format, a...) }
func Validationf(format string, a ...any) error   { return Newf(ErrorCodeValidation, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Conflictf(format string, a ...any) error     { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func DBf(format string, a ...any) error           { return Newf(ErrorCodeDB, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Internalf(format string, a ...any) error     { return Newf(ErrorCodeUnknown, format, a...) }

func TooManyRequestsf(format string, a ...any) error {
	return Newf(ErrorCodeTooManyRequests, format, a...)
}

// Retryable is true for Unavailable, TooManyRequests and transient Postgres failures
func Retryable(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests:
		return true
	}
	return IsRetryable(err)
}
