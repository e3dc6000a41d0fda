package notification

import "errors"

var (
	ErrNotConfigured = errors.New("email delivery is not configured")

	ErrNoRecipients = errors.New("no admin email addresses configured")

	ErrNoAddress = errors.New("recipient address is empty")
)
