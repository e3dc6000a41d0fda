package model

import (
	"testing"
	"time"
)

func TestStatus_Normalize(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{"", StatusPending},
		{StatusPending, StatusPending},
		{StatusConfirmed, StatusConfirmed},
		{StatusCancelled, StatusCancelled},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Status(%q).Normalize() = %q, want %q", tt.in, got, tt.want)
		}
	}
	if Status("archived").Valid() {
		t.Errorf("unknown status should not be valid")
	}
}

func TestVenueType(t *testing.T) {
	if VenueDomeTent.Label() != "Dome Tent" || VenueTrainingHall.Label() != "Training Hall" {
		t.Errorf("unexpected venue labels")
	}
	if VenueType("gym").Valid() {
		t.Errorf("gym should not be a valid venue")
	}
}

func TestBooking_DisplayTitle(t *testing.T) {
	b := &Booking{VenueType: VenueTrainingHall}
	if b.DisplayTitle() != "Training Hall" {
		t.Errorf("DisplayTitle() = %q, want venue label", b.DisplayTitle())
	}
	b.EventTitle = "Disaster Preparedness Seminar"
	if b.DisplayTitle() != "Disaster Preparedness Seminar" {
		t.Errorf("DisplayTitle() = %q, want event title", b.DisplayTitle())
	}
}

func TestUser_EffectiveRole(t *testing.T) {
	tests := []struct {
		name string
		user User
		want Role
	}{
		{"explicit role", User{Role: RoleAdminDome}, RoleAdminDome},
		{"legacy admin flag", User{IsAdmin: true}, RoleAdmin},
		{"no role", User{}, RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.EffectiveRole(); got != tt.want {
				t.Errorf("EffectiveRole() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBookingLockID(t *testing.T) {
	if got := BookingLockID(VenueDomeTent, "2025-06-01"); got != "booking_lock_dome-tent_2025-06-01" {
		t.Errorf("BookingLockID() = %s", got)
	}
}

func TestVerificationCode_Expired(t *testing.T) {
	issued := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	code := VerificationCode{Code: "123456", ExpiresAt: issued.Add(10 * time.Minute)}

	if code.Expired(issued.Add(10 * time.Minute)) {
		t.Errorf("code should still be valid at the exact expiry instant")
	}
	if !code.Expired(issued.Add(10*time.Minute + time.Second)) {
		t.Errorf("code should be expired one second after expiry")
	}
}
