package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDateOccupied = errors.New("date is already booked for this venue")

	ErrInvalidTransition = errors.New("invalid booking status transition")

	ErrChangeStreamsUnsupported = errors.New("change streams require a replica set")
)
