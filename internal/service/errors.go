// Package service contains the business logic of the blog service.
package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")

	ErrOTPNotFound   = errors.New("no OTP found for this email")
	ErrOTPExpired    = errors.New("OTP expired")
	ErrOTPInvalid    = errors.New("invalid OTP")
	ErrEmailDispatch = errors.New("could not send OTP")

	ErrInvalidID    = errors.New("invalid blog id")
	ErrPostNotFound = errors.New("blog not found")
	ErrNotOwner     = errors.New("access denied: not owner")
)

// ValidationError reports missing or malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
