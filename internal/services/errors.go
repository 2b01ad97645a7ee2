package services

import "errors"

// Error kinds returned by the services. Handlers map each one to a status code.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNoFieldsProvided   = errors.New("no valid fields provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidContent     = errors.New("invalid content")
)
