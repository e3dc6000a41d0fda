package lifecycle

import (
	"time"

	"venuebook/pkg/model"
)

// Occupies reports whether b blocks its day for its venue. Pending (or
// unset) and confirmed bookings do; cancelled bookings never do.
func Occupies(b *model.Booking) bool {
	return b != nil && b.EffectiveStatus() != model.StatusCancelled
}

// SameDay compares the calendar day of a and b as seen in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// IsDateOccupied reports whether any occupying booking for venue falls on the
// calendar day of candidate, evaluated in candidate's location. Time of day
// is ignored. A nil candidate is never occupied.
func IsDateOccupied(bookings []*model.Booking, venue model.VenueType, candidate *time.Time) bool {
	if candidate == nil {
		return false
	}
	loc := candidate.Location()
	for _, b := range bookings {
		if b == nil || b.VenueType != venue || !Occupies(b) {
			continue
		}
		if SameDay(b.Date, *candidate, loc) {
			return true
		}
	}
	return false
}

// OccupiedDays returns the days of month (1-based) that are taken for venue.
func OccupiedDays(bookings []*model.Booking, venue model.VenueType, year int, month time.Month, loc *time.Location) map[int]bool {
	days := make(map[int]bool)
	for _, b := range bookings {
		if b == nil || b.VenueType != venue || !Occupies(b) {
			continue
		}
		y, m, d := b.Date.In(loc).Date()
		if y == year && m == month {
			days[d] = true
		}
	}
	return days
}

// FilterByVenue keeps the bookings of venue. An empty venue keeps all.
func FilterByVenue(bookings []*model.Booking, venue model.VenueType) []*model.Booking {
	if venue == "" {
		return bookings
	}
	out := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b != nil && b.VenueType == venue {
			out = append(out, b)
		}
	}
	return out
}
