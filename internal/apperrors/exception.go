package apperrors

import (
	"errors"
	"net/http"
)

// Exception is an error carrying the HTTP status it should surface as.
// Handlers return Message(err) to the client; internal detail stays in logs.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func Unauthorized(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusUnauthorized}
}

func Forbidden(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusForbidden}
}

func NotFound(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusNotFound}
}

func Validation(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusBadRequest}
}

// StatusCode maps err to an HTTP status; anything untyped is a 500.
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the message safe to send to the client.
func ClientMessage(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
