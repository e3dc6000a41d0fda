package lifecycle

import (
	"testing"
	"time"

	"venuebook/pkg/model"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name        string
		year        int
		month       time.Month
		wantLeading int
		wantDays    int
	}{
		// June 1 2025 is a Sunday.
		{"month starting on sunday", 2025, time.June, 0, 30},
		// March 1 2025 is a Saturday.
		{"month starting on saturday", 2025, time.March, 6, 31},
		{"leap february", 2024, time.February, 4, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthGrid(tt.year, tt.month, manila)
			if len(cells) != tt.wantLeading+tt.wantDays {
				t.Fatalf("len = %d, want %d", len(cells), tt.wantLeading+tt.wantDays)
			}
			for i := 0; i < tt.wantLeading; i++ {
				if cells[i] != nil {
					t.Errorf("cell %d should be padding", i)
				}
			}
			first := cells[tt.wantLeading]
			if first == nil || first.Day() != 1 || first.Month() != tt.month {
				t.Errorf("first real cell = %v, want day 1", first)
			}
			last := cells[len(cells)-1]
			if last.Day() != tt.wantDays {
				t.Errorf("last cell day = %d, want %d", last.Day(), tt.wantDays)
			}
		})
	}
}

func TestSplitByMeridiem(t *testing.T) {
	morning := &model.Booking{StartTime: "08:30"}
	noon := &model.Booking{StartTime: "12:00"}
	evening := &model.Booking{StartTime: "18:15"}
	elevenFiftyNine := &model.Booking{StartTime: "11:59"}

	am, pm := SplitByMeridiem([]*model.Booking{morning, noon, evening, elevenFiftyNine})
	if len(am) != 2 || am[0] != morning || am[1] != elevenFiftyNine {
		t.Errorf("am = %v", am)
	}
	if len(pm) != 2 || pm[0] != noon || pm[1] != evening {
		t.Errorf("pm = %v", pm)
	}
}

func TestFormatTime12Hour(t *testing.T) {
	tests := map[string]string{
		"00:00": "12:00 AM",
		"09:05": "9:05 AM",
		"12:00": "12:00 PM",
		"13:30": "1:30 PM",
		"23:59": "11:59 PM",
		"noon":  "noon",
		"25:00": "25:00",
	}
	for in, want := range tests {
		if got := FormatTime12Hour(in); got != want {
			t.Errorf("FormatTime12Hour(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClockMinutes(t *testing.T) {
	if got, err := ClockMinutes("13:45"); err != nil || got != 825 {
		t.Errorf("ClockMinutes(13:45) = %d, %v", got, err)
	}
	if _, err := ClockMinutes("1345"); err == nil {
		t.Errorf("expected error for malformed clock")
	}
}

func TestBuildCalendar(t *testing.T) {
	bookings := []*model.Booking{
		{VenueType: model.VenueDomeTent, Date: day(2025, time.June, 3, 0), StartTime: "08:00", Status: model.StatusPending},
		{VenueType: model.VenueDomeTent, Date: day(2025, time.June, 3, 0), StartTime: "14:00", Status: model.StatusCancelled},
		{VenueType: model.VenueDomeTent, Date: day(2025, time.June, 10, 0), StartTime: "13:00", Status: model.StatusConfirmed},
		{VenueType: model.VenueTrainingHall, Date: day(2025, time.June, 3, 0), StartTime: "08:00", Status: model.StatusPending},
	}

	cells := BuildCalendar(bookings, model.VenueDomeTent, BucketHistory, 2025, time.June, manila)
	if len(cells) != 30 {
		t.Fatalf("expected 30 cells for June 2025, got %d", len(cells))
	}

	june3 := cells[2]
	if !june3.Occupied {
		t.Errorf("June 3 should be occupied by the pending dome booking")
	}
	if len(june3.Morning) != 0 || len(june3.Afternoon) != 1 {
		t.Errorf("June 3 history should hold only the cancelled afternoon booking")
	}

	june10 := cells[9]
	if !june10.Occupied || len(june10.Afternoon) != 1 {
		t.Errorf("June 10 should show the confirmed afternoon booking")
	}
	if cells[4].Occupied {
		t.Errorf("June 5 should be free")
	}
}
