package lifecycle

import (
	"errors"
	"testing"

	bookingserrors "venuebook/internal/bookings/errors"
	"venuebook/pkg/model"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		current model.Status
		target  model.Status
		want    model.Status
		wantErr bool
	}{
		{"pending to confirmed", model.StatusPending, model.StatusConfirmed, model.StatusConfirmed, false},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, model.StatusCancelled, false},
		{"absent status behaves as pending", "", model.StatusConfirmed, model.StatusConfirmed, false},
		{"confirmed is terminal", model.StatusConfirmed, model.StatusCancelled, model.StatusConfirmed, true},
		{"cancelled is terminal", model.StatusCancelled, model.StatusConfirmed, model.StatusCancelled, true},
		{"confirm twice", model.StatusConfirmed, model.StatusConfirmed, model.StatusConfirmed, true},
		{"back to pending", model.StatusPending, model.StatusPending, model.StatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, bookingserrors.ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Transition() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTerminalStatesNeverChange(t *testing.T) {
	targets := []model.Status{model.StatusPending, model.StatusConfirmed, model.StatusCancelled}
	for _, terminal := range []model.Status{model.StatusConfirmed, model.StatusCancelled} {
		status := terminal
		for _, target := range targets {
			status, _ = Transition(status, target)
		}
		if status != terminal {
			t.Errorf("terminal %q moved to %q", terminal, status)
		}
	}
}
