package utils

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures that cross the service boundary.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindValidation
	KindUnauthenticated
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindPayloadTooLarge
	KindTooManyRequests
)

// Status maps the kind to its HTTP status code.
func (k ErrorKind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnauthorized, KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AppError carries everything the response envelope needs. Message is the
// short envelope message, Detail the longer "error" text, Fields the
// per-field validation messages. Err keeps the underlying cause for logs.
type AppError struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// AsAppError extracts an AppError from err. Unknown errors become Internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("An error occurred", "An unexpected error occurred. Please try again later.", err)
}

func NewBadRequest(message, detail string) *AppError {
	return &AppError{Kind: KindBadRequest, Message: message, Detail: detail}
}

func NewValidation(fields map[string]string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: "Validation failed",
		Detail:  "The provided data is invalid.",
		Fields:  fields,
	}
}

func NewUnauthenticated(message, detail string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message, Detail: detail}
}

func NewUnauthorized(message, detail string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message, Detail: detail}
}

func NewForbidden(message, detail string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message, Detail: detail}
}

func NewNotFound(message, detail string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, Detail: detail}
}

func NewConflict(message, detail string) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Detail: detail}
}

func NewPayloadTooLarge(message, detail string) *AppError {
	return &AppError{Kind: KindPayloadTooLarge, Message: message, Detail: detail}
}

func NewTooManyRequests(message, detail string) *AppError {
	return &AppError{Kind: KindTooManyRequests, Message: message, Detail: detail}
}

func NewInternal(message, detail string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Detail: detail, Err: err}
}
