package booking

import (
	"fmt"

	"homecrew/internal/domain"
)

var (
	ErrAlreadyRated = fmt.Errorf("%w: booking already rated", domain.ErrInvalidTransition)
	ErrPastDate     = fmt.Errorf("%w: date is in the past", domain.ErrValidation)
	ErrBadProblem   = fmt.Errorf("%w: problem does not belong to service", domain.ErrValidation)
)

func invalidTransition(id string, op string, from domain.BookingStatus) error {
	return fmt.Errorf("%w: cannot %s booking %s from %s", domain.ErrInvalidTransition, op, id, from)
}
