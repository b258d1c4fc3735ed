// Package apierr holds the error kinds handlers return to API clients and
// their JSON rendering.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/neuralspace/pkg"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindValidation
	KindTooManyRequests
	KindStorage
)

const genericInternalMessage = "internal server error"

type Error struct {
	Kind    Kind
	Message string
	// Fields maps a request field to the rule it broke. Only set for KindValidation.
	Fields map[string]string
	// Err is the underlying cause. It is logged, never rendered.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: genericInternalMessage, Err: err}
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type responseBody struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Write renders err as a JSON error body. Errors that are not *Error, and
// storage errors, are logged and rendered as a generic 500.
func Write(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Storage(err)
	}

	status := HTTPStatus(apiErr.Kind)
	body := responseBody{Detail: apiErr.Message}
	switch {
	case status >= http.StatusInternalServerError:
		log.Errorf("internal error: %s", err)
		body.Detail = genericInternalMessage
	case apiErr.Kind == KindValidation:
		body.Errors = apiErr.Fields
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Cookie")
	}
	pkg.WriteJSONResponse(w, body, status)
}
