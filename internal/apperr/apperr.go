// Package apperr carries the error taxonomy shared by every core component.
// Repos and services attach a Kind to failures at their own boundary; callers
// use KindOf to decide between fallback and propagation instead of the
// function silently swallowing the failure.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration marks fatal operational preconditions, e.g. an empty
	// course catalog during onboarding. Aborts the operation.
	KindConfiguration
	// KindDataUnavailable marks missing interactions or model artifacts. It
	// triggers a documented fallback and is not surfaced to the caller.
	KindDataUnavailable
	// KindValidation marks caller mistakes (unknown recommendation type,
	// rating outside the allowed range). Always surfaced to the caller.
	KindValidation
	// KindSchemaDrift marks a feature-dimension mismatch between live data
	// and a trained model. Surfaced as an empty result, logged loudly.
	KindSchemaDrift
	// KindTransientStore marks connection/query failures. Logged; the
	// operation degrades to an empty or default result.
	KindTransientStore
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindDataUnavailable:
		return "data_unavailable"
	case KindValidation:
		return "validation"
	case KindSchemaDrift:
		return "schema_drift"
	case KindTransientStore:
		return "transient_store"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err.Error())
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf walks the chain and returns the kind of the outermost *Error,
// or KindUnknown when the chain carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
