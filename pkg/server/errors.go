package server

import (
	"errors"
	"net/http"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgImageRequired    = "画像データが必要です"
	msgInvalidBody      = "リクエストボディが不正です"
)

// ValidationError reports a request the client must fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MethodError reports a request made with an unsupported HTTP method.
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return msgMethodNotAllowed
}

// statusFor maps an error to the HTTP status it is surfaced with.
func statusFor(err error) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	var methodErr *MethodError
	if errors.As(err, &methodErr) {
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}
