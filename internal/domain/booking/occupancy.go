package booking

import "github.com/google/uuid"

// Occupancy is the part of a booking that matters for availability.
type Occupancy struct {
	BookingID uuid.UUID
	RoomID    uuid.UUID
	Stay      Stay
	Status    BookingStatus
}

// Blocks reports whether the occupancy prevents booking its room for stay.
func (o Occupancy) Blocks(stay Stay) bool {
	return o.Status.IsActive() && o.Stay.Overlaps(stay)
}

// FindConflict returns the first occupancy of roomID that blocks stay, ignoring
// the booking identified by exclude.
func FindConflict(occupancies []Occupancy, roomID uuid.UUID, stay Stay, exclude uuid.UUID) (Occupancy, bool) {
	for _, o := range occupancies {
		if o.RoomID != roomID || (exclude != uuid.Nil && o.BookingID == exclude) {
			continue
		}
		if o.Blocks(stay) {
			return o, true
		}
	}
	return Occupancy{}, false
}
