// Package apperr defines the error taxonomy shared by the HTTP layer and the
// report pipeline. Handlers map these to status codes via httpx's error
// handler; everything else wraps with %w so errors.Is keeps working.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindPermissionDenied: caller lacks the required resource.action at any scope.
	KindPermissionDenied
	// KindNotFound: unknown id, or a visible-but-unauthorized id under self
	// scope. The two are indistinguishable on the wire.
	KindNotFound
	// KindValidation: bad parameters or filter values.
	KindValidation
	// KindNotReady: download requested before the job reached completed.
	KindNotReady
	// KindUnavailable: a required collaborator (db, store) cannot be reached.
	KindUnavailable
)

type Error struct {
	Knd Kind
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(k Kind, msg string) *Error { return &Error{Knd: k, Msg: msg} }

func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Knd: k, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(k Kind, msg string, err error) *Error { return &Error{Knd: k, Msg: msg, Err: err} }

func PermissionDenied(msg string) *Error { return New(KindPermissionDenied, msg) }
func NotFound(msg string) *Error         { return New(KindNotFound, msg) }
func Validationf(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}
func NotReady(msg string) *Error { return New(KindNotReady, msg) }
func Unavailable(msg string, err error) *Error {
	return Wrap(KindUnavailable, msg, err)
}

// KindOf extracts the taxonomy kind from an error chain.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Knd
	}
	return KindUnknown
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// HTTPStatus maps a taxonomy kind to the externally visible status code.
// NotReady is deliberately 422 so callers can tell "wrong id" (404) from
// "not finished yet".
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindNotReady:
		return http.StatusUnprocessableEntity
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the external message for an error. Unknown errors collapse
// to a generic message so internals never leak to a polling client.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Msg
	}
	return "internal error"
}
