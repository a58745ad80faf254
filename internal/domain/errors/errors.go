package errors

import "errors"

var (
	ErrAlreadyExists          = errors.New("already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrValidation             = errors.New("invalid request")
	ErrProductNotFound        = errors.New("product not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrOrderNotFound          = errors.New("order not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrUnauthorized           = errors.New("unauthorized action")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)
