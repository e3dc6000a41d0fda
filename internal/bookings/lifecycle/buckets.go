package lifecycle

import (
	"fmt"
	"sort"
	"time"

	"venuebook/pkg/model"
)

type Bucket string

const (
	BucketPending Bucket = "pending"
	BucketBooked  Bucket = "booked"
	BucketHistory Bucket = "history"
)

func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(s); b {
	case BucketPending, BucketBooked, BucketHistory:
		return b, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Contains reports bucket membership for a single booking.
func (bk Bucket) Contains(b *model.Booking) bool {
	if b == nil {
		return false
	}
	switch bk {
	case BucketPending:
		return b.EffectiveStatus() == model.StatusPending
	case BucketBooked:
		return b.EffectiveStatus() == model.StatusConfirmed
	case BucketHistory:
		s := b.EffectiveStatus()
		return s == model.StatusConfirmed || s == model.StatusCancelled
	}
	return false
}

// Project returns the bookings of the bucket. Pending keeps the input order
// regardless of date; booked and history are sorted by date, most recent
// first.
func (bk Bucket) Project(bookings []*model.Booking) []*model.Booking {
	out := make([]*model.Booking, 0)
	for _, b := range bookings {
		if bk.Contains(b) {
			out = append(out, b)
		}
	}
	if bk != BucketPending {
		sortByDateDesc(out)
	}
	return out
}

func PendingBucket(bookings []*model.Booking) []*model.Booking {
	return BucketPending.Project(bookings)
}

func BookedBucket(bookings []*model.Booking) []*model.Booking {
	return BucketBooked.Project(bookings)
}

func HistoryBucket(bookings []*model.Booking) []*model.Booking {
	return BucketHistory.Project(bookings)
}

type StatusCounts struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Total     int `json:"total"`
}

func CountByStatus(bookings []*model.Booking) StatusCounts {
	var c StatusCounts
	for _, b := range bookings {
		if b == nil {
			continue
		}
		switch b.EffectiveStatus() {
		case model.StatusPending:
			c.Pending++
		case model.StatusConfirmed:
			c.Confirmed++
		case model.StatusCancelled:
			c.Cancelled++
		}
		c.Total++
	}
	return c
}

// SortByDateAsc orders bookings by event date, oldest first, which is the
// order the booking list is served in.
func SortByDateAsc(bookings []*model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Date.Before(bookings[j].Date)
	})
}

func sortByDateDesc(bookings []*model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Date.After(bookings[j].Date)
	})
}

// ForDay returns the bucket members whose date falls on day in loc.
func ForDay(bookings []*model.Booking, day time.Time, loc *time.Location, bucket Bucket) []*model.Booking {
	out := make([]*model.Booking, 0)
	for _, b := range bookings {
		if bucket.Contains(b) && SameDay(b.Date, day, loc) {
			out = append(out, b)
		}
	}
	return out
}
