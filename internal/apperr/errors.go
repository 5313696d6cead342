package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthFormat
	KindInvalidCredentials
	KindForbidden
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuthFormat:
		return "auth_format"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	case KindUpstream:
		return "upstream"
	}
	return "unknown"
}

// Error is a classified error returned by the service layer.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return e.Msg + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two classified errors by kind, so sentinel-style checks like
// errors.Is(err, apperr.Validation("")) work without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func AuthFormat(msg string) *Error {
	return &Error{Kind: KindAuthFormat, Msg: msg}
}

// InvalidCredentials carries one fixed message for both the unknown-email
// and wrong-password cases so callers cannot probe which accounts exist.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Msg: "invalid email or password"}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func Upstream(op string, err error) *Error {
	return &Error{Kind: KindUpstream, Msg: fmt.Sprintf("%s failed", op), Err: err}
}

// KindOf returns the classification of err, or KindUnknown for errors that
// did not come from the service layer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
