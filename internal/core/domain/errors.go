package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// FaultKind discriminates the exceptional conditions the service layer can
// raise. Faults propagate as error returns and are resolved by a single
// translation point at the HTTP boundary.
type FaultKind int

const (
	KindNotFound FaultKind = iota
	KindBadRequest
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
	KindBusiness
)

// Fault is a tagged error carrying a message and an optional ordered list of
// detail strings. Internal causes never ride along; they are logged where
// they occur and replaced by a Fault before crossing the boundary.
type Fault struct {
	Kind    FaultKind
	Message string
	Details []string
}

func (f *Fault) Error() string { return f.Message }

// Status maps the fault kind to its fixed HTTP status code.
func (f *Fault) Status() int {
	switch f.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default: // KindBadRequest, KindBusiness
		return http.StatusBadRequest
	}
}

// AsFault extracts a *Fault from anywhere in err's chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// NotFound builds a 404 fault naming the resource and its key.
func NotFound(resource string, key any) *Fault {
	return &Fault{Kind: KindNotFound, Message: fmt.Sprintf("%s with id '%v' was not found", resource, key)}
}

// NotFoundMsg builds a 404 fault with a verbatim message, for lookups keyed
// by values that must not be echoed back (token secrets).
func NotFoundMsg(message string) *Fault {
	return &Fault{Kind: KindNotFound, Message: message}
}

func BadRequest(message string) *Fault {
	return &Fault{Kind: KindBadRequest, Message: message}
}

// Validation aggregates all field-level messages into one 422 fault; callers
// collect every violation before raising rather than failing on the first.
func Validation(details []string) *Fault {
	return &Fault{Kind: KindValidation, Message: "one or more validation errors occurred", Details: details}
}

func Unauthorized(message string) *Fault {
	return &Fault{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Fault {
	return &Fault{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Fault {
	return &Fault{Kind: KindConflict, Message: message}
}

func Business(message string) *Fault {
	return &Fault{Kind: KindBusiness, Message: message}
}
