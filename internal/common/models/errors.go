package models

import (
	"fmt"
	"net/http"
)

// AppError is a failure the client can act on. Services return it for validation, missing rows
// and constraint violations; anything else is treated as an internal error.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func BadRequest(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the driver error for logs while the client only sees msg.
func Wrap(status int, msg string, err error) *AppError {
	return &AppError{Status: status, Message: msg, Err: err}
}
