// Package availability picks the room to offer for a requested stay.
package availability

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/domain/room"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// Criteria describes the party and the stay a room is wanted for.
type Criteria struct {
	Adults   int
	Children int
	Stay     booking.Stay
}

// NewCriteria validates a search against today.
func NewCriteria(adults, children int, checkIn, checkOut, today time.Time) (Criteria, error) {
	if adults < 1 {
		return Criteria{}, apperror.NewValidationError("Number of adults must be at least 1")
	}
	if children < 0 {
		return Criteria{}, apperror.NewValidationError("Number of children cannot be negative")
	}
	stay, err := booking.NewStay(checkIn, checkOut, today)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Adults: adults, Children: children, Stay: stay}, nil
}

// SelectCheapest returns the cheapest room that fits the party and is not held
// by an active booking overlapping the stay. Equal prices fall back to the
// lower room number. It returns nil when no room qualifies.
func SelectCheapest(c Criteria, rooms []*room.Room, occupancies []booking.Occupancy) *room.Room {
	blocked := make(map[uuid.UUID]struct{}, len(occupancies))
	for _, o := range occupancies {
		if o.Blocks(c.Stay) {
			blocked[o.RoomID] = struct{}{}
		}
	}

	candidates := make([]*room.Room, 0, len(rooms))
	for _, r := range rooms {
		if !r.Fits(c.Adults, c.Children) {
			continue
		}
		if _, taken := blocked[r.ID()]; taken {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PriceCents() != candidates[j].PriceCents() {
			return candidates[i].PriceCents() < candidates[j].PriceCents()
		}
		return candidates[i].Number() < candidates[j].Number()
	})
	return candidates[0]
}
