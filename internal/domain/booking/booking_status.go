package booking

import (
	"fmt"
	"strings"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusBooked     BookingStatus = "BOOKED"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
	StatusCanceled   BookingStatus = "CANCELED"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusBooked:     {StatusCheckedIn, StatusCanceled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCanceled:   {},
}

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []BookingStatus{StatusBooked, StatusCheckedIn, StatusCheckedOut, StatusCanceled}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether a booking in this status occupies its room.
func (s BookingStatus) IsActive() bool {
	return s == StatusBooked || s == StatusCheckedIn
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus. Matching ignores case.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", apperror.NewValidationError(fmt.Sprintf("Invalid booking status: %s", s))
	}
	return status, nil
}

// ActiveStatuses returns the statuses that block availability.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusBooked, StatusCheckedIn}
}
