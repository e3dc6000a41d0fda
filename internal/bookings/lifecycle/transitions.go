package lifecycle

import (
	"fmt"

	bookingserrors "venuebook/internal/bookings/errors"
	"venuebook/pkg/model"
)

// Confirmed and cancelled are terminal.
var allowedTransitions = map[model.Status]map[model.Status]bool{
	model.StatusPending: {
		model.StatusConfirmed: true,
		model.StatusCancelled: true,
	},
}

func CanTransition(from, to model.Status) bool {
	return allowedTransitions[from.Normalize()][to]
}

// Transition returns target when the move is legal. Otherwise it returns the
// unchanged current status and an error wrapping ErrInvalidTransition.
func Transition(current, target model.Status) (model.Status, error) {
	if !CanTransition(current, target) {
		return current, fmt.Errorf("%w: %s -> %s", bookingserrors.ErrInvalidTransition, current.Normalize(), target)
	}
	return target, nil
}
