package notification

import (
	"fmt"
	"strings"
	"time"

	"venuebook/internal/bookings/lifecycle"
	"venuebook/pkg/model"
)

const eventDateLayout = "Monday, January 2, 2006"

// FormatEventDate renders the booking date the way it appears in emails,
// for example "Sunday, June 1, 2025".
func FormatEventDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(eventDateLayout)
}

func FormatTimeRange(start, end string) string {
	return lifecycle.FormatTime12Hour(start) + " - " + lifecycle.FormatTime12Hour(end)
}

// EquipmentList names the requested equipment, quantities in parentheses.
func EquipmentList(e model.Equipment) []string {
	var items []string
	if e.ProjectorAndScreen {
		items = append(items, "Projector and Screen")
	}
	if e.Lectern {
		items = append(items, "Lectern")
	}
	if e.Tables {
		items = append(items, withQuantity("Tables", e.TablesQuantity))
	}
	if e.Whiteboard {
		items = append(items, "Whiteboard")
	}
	if e.SoundSystem {
		items = append(items, "Sound System")
	}
	if e.FlagStand {
		items = append(items, "Flag Stand")
	}
	if e.Chairs {
		items = append(items, withQuantity("Chairs", e.ChairsQuantity))
	}
	if others := strings.TrimSpace(e.Others); others != "" {
		items = append(items, "Others: "+others)
	}
	return items
}

func ActivityList(a model.ActivityType) []string {
	var items []string
	if a.Training {
		items = append(items, "Training")
	}
	if a.Seminar {
		items = append(items, "Seminar")
	}
	if a.Workshop {
		items = append(items, "Workshop")
	}
	if a.Meeting {
		items = append(items, "Meeting")
	}
	if others := strings.TrimSpace(a.Others); others != "" {
		items = append(items, "Others: "+others)
	}
	return items
}

func RoomLayoutList(l model.RoomLayout) []string {
	var items []string
	if l.Classroom {
		items = append(items, "Classroom")
	}
	if l.Theater {
		items = append(items, "Theater")
	}
	if l.UShape {
		items = append(items, "U-Shape")
	}
	if l.Boardroom {
		items = append(items, "Boardroom")
	}
	return items
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func withQuantity(name string, qty int) string {
	if qty <= 0 {
		return name
	}
	return fmt.Sprintf("%s (%d)", name, qty)
}
