package httperr

import (
	"errors"
	"net/http"
	"strings"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindState      Kind = "state"
	KindConflict   Kind = "conflict"
)

func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// BusinessError is a user-facing failure identified by a message code.
type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness reports an operation that is invalid for the entity's current state.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindState, Code: code}
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrForbidden(code string) error {
	return BusinessError{Kind: KindForbidden, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	var vf *ValidationFailed
	if errors.As(err, &vf) {
		return KindValidation, true
	}
	return "", false
}

// ValidationError is one localized availability failure.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationFailed carries every accumulated validation failure of a request.
type ValidationFailed struct {
	Errors []ValidationError
}

func (e *ValidationFailed) Error() string {
	codes := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		codes = append(codes, ve.Code)
	}
	return "validation failed: " + strings.Join(codes, ", ")
}

func (e *ValidationFailed) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		out = append(out, ve.Message)
	}
	return out
}
