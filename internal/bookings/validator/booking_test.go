package validator

import (
	"errors"
	"testing"
	"time"

	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

var facility = time.FixedZone("PHT", 8*3600)

func newTestValidator() *BookingValidator {
	v := NewBookingValidator(logger.Discard(), facility)
	v.now = func() time.Time { return time.Date(2025, time.May, 20, 10, 0, 0, 0, facility) }
	return v
}

func validBooking() *model.Booking {
	return &model.Booking{
		VenueType:     model.VenueDomeTent,
		Date:          time.Date(2025, time.June, 1, 0, 0, 0, 0, facility),
		StartTime:     "08:00",
		EndTime:       "17:00",
		ContactPerson: "Maria Santos",
		MobileNo:      "09171234567",
		ClientEmail:   "maria.santos@example.gov.ph",
		EventTitle:    "Provincial Sports Fest",
		EquipmentNeeded: model.Equipment{
			Chairs:         true,
			ChairsQuantity: 200,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{name: "valid booking", mutate: func(b *model.Booking) {}},
		{name: "today is allowed", mutate: func(b *model.Booking) {
			b.Date = time.Date(2025, time.May, 20, 0, 0, 0, 0, facility)
		}},
		{name: "no email is allowed", mutate: func(b *model.Booking) { b.ClientEmail = "" }},
		{name: "unknown venue", mutate: func(b *model.Booking) { b.VenueType = "gymnasium" }, wantField: "type"},
		{name: "missing date", mutate: func(b *model.Booking) { b.Date = time.Time{} }, wantField: "date"},
		{name: "past date", mutate: func(b *model.Booking) {
			b.Date = time.Date(2025, time.May, 19, 0, 0, 0, 0, facility)
		}, wantField: "date"},
		{name: "malformed start", mutate: func(b *model.Booking) { b.StartTime = "8am" }, wantField: "start_time"},
		{name: "end before start", mutate: func(b *model.Booking) { b.EndTime = "07:30" }, wantField: "end_time"},
		{name: "mobile too short", mutate: func(b *model.Booking) { b.MobileNo = "0917123456" }, wantField: "mobile_no"},
		{name: "mobile with letters", mutate: func(b *model.Booking) { b.MobileNo = "0917123456a" }, wantField: "mobile_no"},
		{name: "bad email", mutate: func(b *model.Booking) { b.ClientEmail = "not-an-email" }, wantField: "client_email"},
		{name: "missing contact person", mutate: func(b *model.Booking) { b.ContactPerson = "" }, wantField: "contact_person"},
		{name: "negative chairs", mutate: func(b *model.Booking) { b.EquipmentNeeded.ChairsQuantity = -1 }, wantField: "chairs_quantity"},
		{name: "unknown status", mutate: func(b *model.Booking) { b.Status = "archived" }, wantField: "status"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs.Details()[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestMobileMessage(t *testing.T) {
	b := validBooking()
	b.MobileNo = "123"

	var verrs ValidationErrors
	if !errors.As(newTestValidator().Validate(b), &verrs) {
		t.Fatal("expected ValidationErrors")
	}
	if verrs.Details()["mobile_no"] != "Mobile number must be exactly 11 digits" {
		t.Errorf("unexpected message: %v", verrs.Details()["mobile_no"])
	}
}
