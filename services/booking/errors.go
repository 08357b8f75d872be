package booking

import (
	"errors"

	bookingRepo "indastreet/database/repository/booking"
)

var (
	// ErrInvalidTransition is returned when the target status is not
	// reachable from the current one in a single step.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrStatusConflict is returned when the stored status no longer matches
	// the status the caller transitioned from.
	ErrStatusConflict = errors.New("booking status changed concurrently")

	ErrBookingNotFound  = bookingRepo.ErrNotFound
	ErrDuplicateBooking = errors.New("a booking with this provider was created moments ago")
	ErrSlotReserved     = bookingRepo.ErrSlotTaken
	ErrInvalidBooking   = errors.New("invalid booking request")
	ErrNotParticipant   = errors.New("booking does not belong to caller")
)
