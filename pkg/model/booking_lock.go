package model

import (
	"fmt"
	"time"
)

// BookingLock is an advisory lock document held while a booking for one
// venue and day is being checked and inserted. Only used in strict
// reservation mode.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// BookingLockID derives the lock key from the venue and the YYYY-MM-DD day.
func BookingLockID(venue VenueType, day string) string {
	return fmt.Sprintf("booking_lock_%s_%s", venue, day)
}
