package service

import (
	"errors"
	"fmt"
)

// Token resolution errors. All of them are terminal for the presented
// token; the client needs a fresh invitation.
var (
	// ErrMissingToken is returned when no token was presented
	ErrMissingToken = errors.New("intake token is required")

	// ErrInvalidToken is returned when the token hash matches no row
	ErrInvalidToken = errors.New("intake token is invalid")

	// ErrTokenRevoked is returned when the token has been revoked
	ErrTokenRevoked = errors.New("intake token has been revoked")

	// ErrTokenExpired is returned when the token is past its expiry
	ErrTokenExpired = errors.New("intake token has expired")

	// ErrTokenAlreadyUsed is returned when a one-time token was already consumed
	ErrTokenAlreadyUsed = errors.New("intake token has already been used")

	// ErrInvalidCredentials is returned on a failed operator login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSpam is returned when a relay request trips the honeypot. The
	// caller drops the message without telling the sender.
	ErrSpam = errors.New("request flagged as spam")

	// ErrCaptchaFailed is returned when the captcha verdict is negative
	ErrCaptchaFailed = errors.New("captcha verification failed")
)

// ValidationError reports malformed or missing user input. It is always
// user-correctable and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
