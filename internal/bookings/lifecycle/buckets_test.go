package lifecycle

import (
	"testing"
	"time"

	"venuebook/pkg/model"
)

func TestHistoryBucket(t *testing.T) {
	pendingA := booking(model.VenueDomeTent, day(2025, time.May, 1, 9), model.StatusPending)
	confirmed := booking(model.VenueDomeTent, day(2025, time.May, 10, 9), model.StatusConfirmed)
	cancelled := booking(model.VenueDomeTent, day(2025, time.June, 2, 9), model.StatusCancelled)
	pendingB := booking(model.VenueDomeTent, day(2025, time.July, 1, 9), "")

	got := HistoryBucket([]*model.Booking{pendingA, confirmed, cancelled, pendingB})

	if len(got) != 2 {
		t.Fatalf("expected 2 history bookings, got %d", len(got))
	}
	if got[0] != cancelled || got[1] != confirmed {
		t.Errorf("history should be ordered by date descending")
	}
}

func TestPendingBucketIncludesPastDates(t *testing.T) {
	past := booking(model.VenueTrainingHall, day(2020, time.January, 1, 9), "")
	future := booking(model.VenueTrainingHall, day(2030, time.January, 1, 9), model.StatusPending)
	done := booking(model.VenueTrainingHall, day(2030, time.January, 2, 9), model.StatusConfirmed)

	got := PendingBucket([]*model.Booking{past, future, done})
	if len(got) != 2 || got[0] != past || got[1] != future {
		t.Errorf("PendingBucket() = %v, want past and future pending in input order", got)
	}
}

func TestBookedBucket(t *testing.T) {
	a := booking(model.VenueDomeTent, day(2025, time.May, 1, 9), model.StatusConfirmed)
	b := booking(model.VenueDomeTent, day(2025, time.May, 3, 9), model.StatusConfirmed)
	c := booking(model.VenueDomeTent, day(2025, time.May, 2, 9), model.StatusCancelled)

	got := BookedBucket([]*model.Booking{a, b, c})
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Errorf("BookedBucket() should hold only confirmed bookings, newest first")
	}
}

func TestProjectDoesNotReorderInput(t *testing.T) {
	a := booking(model.VenueDomeTent, day(2025, time.May, 1, 9), model.StatusConfirmed)
	b := booking(model.VenueDomeTent, day(2025, time.May, 3, 9), model.StatusConfirmed)
	input := []*model.Booking{a, b}

	_ = HistoryBucket(input)
	if input[0] != a || input[1] != b {
		t.Errorf("projection must not mutate the input slice")
	}
}

func TestParseBucket(t *testing.T) {
	for _, name := range []string{"pending", "booked", "history"} {
		if _, err := ParseBucket(name); err != nil {
			t.Errorf("ParseBucket(%q) error = %v", name, err)
		}
	}
	if _, err := ParseBucket("archive"); err == nil {
		t.Errorf("expected error for unknown view")
	}
}

func TestCountByStatus(t *testing.T) {
	bookings := []*model.Booking{
		booking(model.VenueDomeTent, day(2025, time.May, 1, 9), ""),
		booking(model.VenueDomeTent, day(2025, time.May, 2, 9), model.StatusPending),
		booking(model.VenueDomeTent, day(2025, time.May, 3, 9), model.StatusConfirmed),
		booking(model.VenueDomeTent, day(2025, time.May, 4, 9), model.StatusCancelled),
	}

	got := CountByStatus(bookings)
	want := StatusCounts{Pending: 2, Confirmed: 1, Cancelled: 1, Total: 4}
	if got != want {
		t.Errorf("CountByStatus() = %+v, want %+v", got, want)
	}
}

func TestSortByDateAsc(t *testing.T) {
	late := booking(model.VenueDomeTent, day(2025, time.May, 9, 9), model.StatusPending)
	early := booking(model.VenueDomeTent, day(2025, time.May, 1, 9), model.StatusPending)
	bookings := []*model.Booking{late, early}

	SortByDateAsc(bookings)
	if bookings[0] != early {
		t.Errorf("expected earliest booking first")
	}
}

func TestForDay(t *testing.T) {
	target := day(2025, time.May, 1, 0)
	onDay := booking(model.VenueDomeTent, day(2025, time.May, 1, 15), model.StatusPending)
	otherDay := booking(model.VenueDomeTent, day(2025, time.May, 2, 9), model.StatusPending)
	confirmed := booking(model.VenueDomeTent, day(2025, time.May, 1, 8), model.StatusConfirmed)

	got := ForDay([]*model.Booking{onDay, otherDay, confirmed}, target, manila, BucketPending)
	if len(got) != 1 || got[0] != onDay {
		t.Errorf("ForDay() = %v, want only the pending booking on May 1", got)
	}
}
