package booking

import (
	"fmt"
	"time"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// MaxStayNights is the longest stay a single booking may cover.
const MaxStayNights = 365

const secondsPerDay = 24 * 60 * 60

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.NewValidationError("Dates must use the YYYY-MM-DD format")
	}
	return t, nil
}

// Stay is the half-open date interval [CheckIn, CheckOut) a booking occupies.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStay validates a requested stay against today: both dates present,
// check-out strictly after check-in, check-in not in the past.
func NewStay(checkIn, checkOut, today time.Time) (Stay, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return Stay{}, apperror.NewValidationError("Check-in and check-out dates are required")
	}
	checkIn, checkOut = Date(checkIn), Date(checkOut)
	if !checkOut.After(checkIn) {
		return Stay{}, apperror.NewValidationError("Check-out date must be after check-in date")
	}
	if checkIn.Before(Date(today)) {
		return Stay{}, apperror.NewValidationError("Check-in date cannot be in the past")
	}
	stay := Stay{CheckIn: checkIn, CheckOut: checkOut}
	if stay.Nights() > MaxStayNights {
		return Stay{}, apperror.NewValidationError(fmt.Sprintf("Stay cannot exceed %d nights", MaxStayNights))
	}
	return stay, nil
}

// Overlaps reports whether two stays share at least one night. Back-to-back
// stays, where one checks out the day the other checks in, do not overlap.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckOut.After(other.CheckIn) && s.CheckIn.Before(other.CheckOut)
}

// Nights is the number of nights charged, never less than one.
func (s Stay) Nights() int {
	days := int((s.CheckOut.Unix() - s.CheckIn.Unix()) / secondsPerDay)
	if days < 1 {
		return 1
	}
	return days
}

// Equal reports whether both stays cover the same dates.
func (s Stay) Equal(other Stay) bool {
	return s.CheckIn.Equal(other.CheckIn) && s.CheckOut.Equal(other.CheckOut)
}
