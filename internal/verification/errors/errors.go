package errors

import "errors"

var (
	ErrCodeNotFound = errors.New("verification code not found")

	ErrInvalidEmail = errors.New("invalid email address")
)
