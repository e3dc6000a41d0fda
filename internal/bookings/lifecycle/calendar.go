package lifecycle

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"venuebook/pkg/model"
)

// MonthGrid lays out a month for a Sunday-first calendar. Leading nil
// entries pad the weekdays before the 1st; every other entry is midnight of
// that day in loc.
func MonthGrid(year int, month time.Month, loc *time.Location) []*time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	cells := make([]*time.Time, 0, offset+daysInMonth)
	for i := 0; i < offset; i++ {
		cells = append(cells, nil)
	}
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, loc)
		cells = append(cells, &day)
	}
	return cells
}

// SplitByMeridiem separates bookings that start before noon from the rest.
// Bookings with an unparsable start time are placed in the afternoon.
func SplitByMeridiem(bookings []*model.Booking) (am, pm []*model.Booking) {
	am = make([]*model.Booking, 0)
	pm = make([]*model.Booking, 0)
	for _, b := range bookings {
		if hour, _, err := parseClock(b.StartTime); err == nil && hour < 12 {
			am = append(am, b)
		} else {
			pm = append(pm, b)
		}
	}
	return am, pm
}

// FormatTime12Hour renders "HH:MM" as "h:MM AM|PM". Input that is not a
// valid clock time is returned unchanged.
func FormatTime12Hour(clock string) string {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return clock
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}

func parseClock(clock string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hour, minute, nil
}

// ClockMinutes converts "HH:MM" into minutes after midnight.
func ClockMinutes(clock string) (int, error) {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

// CalendarCell is one square of a month view. Padding cells have a nil Date.
type CalendarCell struct {
	Date      *time.Time       `json:"date"`
	Occupied  bool             `json:"occupied"`
	Morning   []*model.Booking `json:"morning,omitempty"`
	Afternoon []*model.Booking `json:"afternoon,omitempty"`
}

// BuildCalendar fills a month grid for venue with the bucket's bookings on
// each day, split into morning and afternoon. Occupied marks days that are
// unavailable for new requests regardless of the bucket shown.
func BuildCalendar(bookings []*model.Booking, venue model.VenueType, bucket Bucket, year int, month time.Month, loc *time.Location) []CalendarCell {
	venueBookings := FilterByVenue(bookings, venue)
	occupied := OccupiedDays(venueBookings, venue, year, month, loc)

	grid := MonthGrid(year, month, loc)
	cells := make([]CalendarCell, len(grid))
	for i, day := range grid {
		if day == nil {
			continue
		}
		am, pm := SplitByMeridiem(ForDay(venueBookings, *day, loc, bucket))
		cells[i] = CalendarCell{
			Date:      day,
			Occupied:  occupied[day.Day()],
			Morning:   am,
			Afternoon: pm,
		}
	}
	return cells
}
