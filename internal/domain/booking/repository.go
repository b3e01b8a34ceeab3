package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/pagination"
)

// ErrRoomUnavailable is returned when an active booking already holds the room
// for part of the requested stay.
var ErrRoomUnavailable = apperror.NewValidationError("Room is not available for the selected dates")

// ErrNewRoomUnavailable is returned when an update moves a booking to a room
// that is taken for the requested stay.
var ErrNewRoomUnavailable = apperror.NewValidationError("New room is not available for the selected dates")

// SortFields are the columns bookings may be ordered by.
var SortFields = []string{
	"id", "created_at", "checked_in_date", "checked_out_date",
	"first_name", "last_name", "booking_status", "total_amount_cents",
}

// DefaultSort orders bookings by creation time.
const DefaultSort = "created_at"

// ListFilter narrows a booking listing. An empty UserID lists every booking.
type ListFilter struct {
	UserID string
	Page   pagination.Request
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// List retrieves one page of bookings matching filter.
	List(ctx context.Context, filter ListFilter) ([]*Booking, int64, error)

	// FindOccupancies returns the active bookings whose stay overlaps stay.
	FindOccupancies(ctx context.Context, stay Stay) ([]Occupancy, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[BookingStatus]int64, error)

	// CreateIfAvailable locks the booking's room, re-checks it for conflicting
	// active bookings and inserts the booking in one transaction. It returns
	// ErrRoomUnavailable on conflict.
	CreateIfAvailable(ctx context.Context, booking *Booking) error

	// UpdateIfAvailable does the same for an existing booking, excluding the
	// booking itself from the conflict check, with optimistic locking on version.
	UpdateIfAvailable(ctx context.Context, booking *Booking) error

	// UpdateStatus persists a status change with optimistic locking.
	UpdateStatus(ctx context.Context, booking *Booking) error

	// Delete removes the booking and its service requests.
	Delete(ctx context.Context, id uuid.UUID) error
}
