package models

import (
	"fmt"
	"strings"
)

// bookingGraph lists where each status may go next. An empty list means
// the booking is finished.
var bookingGraph = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusAccepted, StatusDeclined, StatusExpired},
	StatusAccepted:  {StatusConfirmed, StatusDeclined},
	StatusConfirmed: {StatusCompleted},
	StatusCompleted: {},
	StatusDeclined:  {},
	StatusExpired:   {},
	StatusCancelled: {},
}

// IsValid is false for any string outside AllBookingStatuses.
func (s BookingStatus) IsValid() bool {
	_, known := bookingGraph[s]
	return known
}

// CanTransitionTo reports whether target is one edge away from s.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingGraph[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the booking can no longer change status.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingGraph[s]) == 0
}

// IsActive reports whether the booking still holds the provider's attention.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusConfirmed
}

// TimestampField is the document field that records when status was reached.
func (s BookingStatus) TimestampField() string {
	return strings.ToLower(string(s)) + "At"
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus rejects values that are not stored booking statuses.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	if st := BookingStatus(raw); st.IsValid() {
		return st, nil
	}
	return "", fmt.Errorf("unknown booking status %q", raw)
}

// ActiveBookingStatuses are the statuses that reserve a provider's slot.
var ActiveBookingStatuses = []BookingStatus{StatusPending, StatusAccepted, StatusConfirmed}
