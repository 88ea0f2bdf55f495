package httperr

import (
	"errors"
	"net/http"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
)

// BusinessError is an expected failure that is safe to show to the client.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e BusinessError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

// NotFound builds "<resource> not found" with code "<resource>_not_found".
func NotFound(resource string) error {
	r := strings.ToLower(resource)
	return BusinessError{
		Kind:    KindNotFound,
		Code:    strings.ReplaceAll(r, " ", "_") + "_not_found",
		Message: r + " not found",
	}
}

func Forbidden(message string) error {
	return BusinessError{Kind: KindForbidden, Code: "forbidden", Message: message}
}

func Unauthorized(message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: "unauthorized", Message: message}
}

func Conflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
