package service

import "errors"

// Business errors returned by the services. Handlers map these to HTTP
// status codes at the request boundary.
var (
	ErrInvalidInput       = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("username exists or error")
	ErrPostNotFound       = errors.New("post not found")
	ErrInternalServer     = errors.New("internal server error")
)
