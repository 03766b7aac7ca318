package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers match on these with errors.Is; the concrete errors
// below wrap one of them.
var (
	ErrValidation         = errors.New("validation error")
	ErrEmailExists        = errors.New("email exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverifiedAccount  = errors.New("unverified account")
	ErrInvalidToken       = errors.New("invalid token")
)

var (
	ErrMissingFields      = fmt.Errorf("%w: missing fields", ErrValidation)
	ErrPasswordTooShort   = fmt.Errorf("%w: password too short", ErrValidation)
	ErrMissingLoginFields = fmt.Errorf("%w: missing email or password", ErrValidation)
	ErrMissingToken       = fmt.Errorf("%w: missing token", ErrValidation)
)
