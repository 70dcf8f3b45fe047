package apperrors

import "net/http"

var ErrInvalidCredentials = &Exception{
	Message:    "invalid email or password",
	StatusCode: http.StatusUnauthorized,
}
