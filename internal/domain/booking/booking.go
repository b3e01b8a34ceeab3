package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/domain/room"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// Guest holds the contact details of the person the booking is for.
type Guest struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// FullName returns "first last".
func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Details is the caller-supplied part of a booking.
type Details struct {
	Guest            Guest
	SpecialRequests  string
	CheckIn          time.Time
	CheckOut         time.Time
	AdultCapacity    int
	ChildrenCapacity int
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id               uuid.UUID
	guest            Guest
	specialRequests  string
	stay             Stay
	adultCapacity    int
	childrenCapacity int

	roomID     uuid.UUID
	roomNumber int

	status           BookingStatus
	userID           string
	totalAmountCents int64

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a BOOKED booking of rm for the given details. today is the
// calendar date check-in is validated against.
func NewBooking(details Details, rm *room.Room, userID string, pricing PricingStrategy, today time.Time) (*Booking, error) {
	stay, err := validateDetails(details, rm, today)
	if err != nil {
		return nil, err
	}
	total, err := pricing.Total(rm.PriceCents(), stay)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:               uuid.New(),
		guest:            trimGuest(details.Guest),
		specialRequests:  strings.TrimSpace(details.SpecialRequests),
		stay:             stay,
		adultCapacity:    details.AdultCapacity,
		childrenCapacity: details.ChildrenCapacity,
		roomID:           rm.ID(),
		roomNumber:       rm.Number(),
		status:           StatusBooked,
		userID:           userID,
		totalAmountCents: total,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	guest Guest,
	specialRequests string,
	stay Stay,
	adultCapacity, childrenCapacity int,
	roomID uuid.UUID,
	roomNumber int,
	status BookingStatus,
	userID string,
	totalAmountCents int64,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		guest:            guest,
		specialRequests:  specialRequests,
		stay:             stay,
		adultCapacity:    adultCapacity,
		childrenCapacity: childrenCapacity,
		roomID:           roomID,
		roomNumber:       roomNumber,
		status:           status,
		userID:           userID,
		totalAmountCents: totalAmountCents,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func validateDetails(details Details, rm *room.Room, today time.Time) (Stay, error) {
	if strings.TrimSpace(details.Guest.FirstName) == "" || strings.TrimSpace(details.Guest.LastName) == "" {
		return Stay{}, apperror.NewValidationError("Guest first and last name are required")
	}
	if details.AdultCapacity < 1 {
		return Stay{}, apperror.NewValidationError("At least one adult is required")
	}
	if details.ChildrenCapacity < 0 {
		return Stay{}, apperror.NewValidationError("Number of children cannot be negative")
	}
	stay, err := NewStay(details.CheckIn, details.CheckOut, today)
	if err != nil {
		return Stay{}, err
	}
	if rm == nil {
		return Stay{}, apperror.NewValidationError("Room is required")
	}
	if !rm.Fits(details.AdultCapacity, details.ChildrenCapacity) {
		return Stay{}, apperror.NewValidationError("Room capacity is not sufficient for the number of guests")
	}
	return stay, nil
}

func trimGuest(g Guest) Guest {
	return Guest{
		FirstName:   strings.TrimSpace(g.FirstName),
		LastName:    strings.TrimSpace(g.LastName),
		Email:       strings.TrimSpace(g.Email),
		PhoneNumber: strings.TrimSpace(g.PhoneNumber),
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) Guest() Guest            { return b.guest }
func (b *Booking) SpecialRequests() string { return b.specialRequests }
func (b *Booking) Stay() Stay              { return b.stay }
func (b *Booking) AdultCapacity() int      { return b.adultCapacity }
func (b *Booking) ChildrenCapacity() int   { return b.childrenCapacity }
func (b *Booking) RoomID() uuid.UUID       { return b.roomID }
func (b *Booking) RoomNumber() int         { return b.roomNumber }
func (b *Booking) Status() BookingStatus   { return b.status }
func (b *Booking) TotalAmountCents() int64 { return b.totalAmountCents }
func (b *Booking) Version() int64          { return b.version }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }

// UserID returns the id of the user that owns the booking, or "" if none.
func (b *Booking) UserID() string { return b.userID }

// Nights returns the number of nights charged.
func (b *Booking) Nights() int { return b.stay.Nights() }

// Occupancy returns the booking's claim on its room.
func (b *Booking) Occupancy() Occupancy {
	return Occupancy{BookingID: b.id, RoomID: b.roomID, Stay: b.stay, Status: b.status}
}

// --- Behavior ---

// Update replaces the booking's details and room and recomputes the total.
func (b *Booking) Update(details Details, rm *room.Room, pricing PricingStrategy, today time.Time) error {
	stay, err := validateDetails(details, rm, today)
	if err != nil {
		return err
	}
	total, err := pricing.Total(rm.PriceCents(), stay)
	if err != nil {
		return err
	}
	b.guest = trimGuest(details.Guest)
	b.specialRequests = strings.TrimSpace(details.SpecialRequests)
	b.stay = stay
	b.adultCapacity = details.AdultCapacity
	b.childrenCapacity = details.ChildrenCapacity
	b.roomID = rm.ID()
	b.roomNumber = rm.Number()
	b.totalAmountCents = total
	b.updatedAt = time.Now().UTC()
	return nil
}

// TransitionTo moves the booking to target if the lifecycle allows it.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !b.status.CanTransitionTo(target) {
		return apperror.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// EnsureDeletable rejects deleting a booking whose guest is checked in.
func (b *Booking) EnsureDeletable() error {
	if b.status == StatusCheckedIn {
		return apperror.NewValidationError("Cannot delete a booking that is currently checked in")
	}
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
