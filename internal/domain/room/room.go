package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// MaxPriceCents caps the nightly price so stay totals stay within int64.
const MaxPriceCents int64 = 10_000_000_000

// Room is a bookable hotel room.
type Room struct {
	id               uuid.UUID
	number           int
	priceCents       int64
	adultCapacity    int
	childrenCapacity int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewRoom creates a Room after validating its attributes.
func NewRoom(number int, priceCents int64, adultCapacity, childrenCapacity int) (*Room, error) {
	if err := validate(number, priceCents, adultCapacity, childrenCapacity); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Room{
		id:               uuid.New(),
		number:           number,
		priceCents:       priceCents,
		adultCapacity:    adultCapacity,
		childrenCapacity: childrenCapacity,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructRoom rebuilds a Room from persistence data (no validation).
func ReconstructRoom(
	id uuid.UUID,
	number int,
	priceCents int64,
	adultCapacity, childrenCapacity int,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:               id,
		number:           number,
		priceCents:       priceCents,
		adultCapacity:    adultCapacity,
		childrenCapacity: childrenCapacity,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func validate(number int, priceCents int64, adultCapacity, childrenCapacity int) error {
	if number <= 0 {
		return apperror.NewValidationError("Room number must be positive")
	}
	if priceCents <= 0 {
		return apperror.NewValidationError("Room price must be positive")
	}
	if priceCents > MaxPriceCents {
		return apperror.NewValidationError("Room price exceeds the maximum allowed")
	}
	if adultCapacity < 1 {
		return apperror.NewValidationError("Adult capacity must be at least 1")
	}
	if childrenCapacity < 0 {
		return apperror.NewValidationError("Children capacity cannot be negative")
	}
	return nil
}

func (r *Room) ID() uuid.UUID         { return r.id }
func (r *Room) Number() int           { return r.number }
func (r *Room) PriceCents() int64     { return r.priceCents }
func (r *Room) AdultCapacity() int    { return r.adultCapacity }
func (r *Room) ChildrenCapacity() int { return r.childrenCapacity }
func (r *Room) CreatedAt() time.Time  { return r.createdAt }
func (r *Room) UpdatedAt() time.Time  { return r.updatedAt }
func (r *Room) TotalCapacity() int    { return r.adultCapacity + r.childrenCapacity }

// Fits reports whether the room can hold the party: enough adult beds, and
// enough beds overall once children are counted.
func (r *Room) Fits(adults, children int) bool {
	return r.adultCapacity >= adults && r.TotalCapacity() >= adults+children
}

// Update replaces the room's attributes after validating them.
func (r *Room) Update(number int, priceCents int64, adultCapacity, childrenCapacity int) error {
	if err := validate(number, priceCents, adultCapacity, childrenCapacity); err != nil {
		return err
	}
	r.number = number
	r.priceCents = priceCents
	r.adultCapacity = adultCapacity
	r.childrenCapacity = childrenCapacity
	r.updatedAt = time.Now().UTC()
	return nil
}
