package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ErrorKind classifies failures coming back from the origin service.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindServerFault
	KindNetworkUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindServerFault:
		return "server fault"
	case KindNetworkUnavailable:
		return "network unavailable"
	}
	return "unknown"
}

// OriginError is a typed failure from the origin service. Status is 0 when the
// request never reached the origin (transport failure).
type OriginError struct {
	Op     string
	Kind   ErrorKind
	Status int
	Err    error
}

// NewOriginError derives the error Kind from the HTTP status code.
// A zero status means the call failed before a response was received.
func NewOriginError(op string, status int, err error) *OriginError {
	var kind ErrorKind
	switch {
	case status == 0:
		kind = KindNetworkUnavailable
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindUnauthorized
	case status >= http.StatusInternalServerError:
		kind = KindServerFault
	default:
		kind = KindUnknown
	}
	return &OriginError{Op: op, Kind: kind, Status: status, Err: err}
}

func (e *OriginError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *OriginError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or KindUnknown for non-origin errors.
func KindOf(err error) ErrorKind {
	if oe, ok := errors.Cause(err).(*OriginError); ok {
		return oe.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is an origin NotFound; the one error kind
// reconciliation absorbs (a legitimate concurrent deletion upstream).
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
