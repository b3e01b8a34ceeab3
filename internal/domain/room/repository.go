package room

import (
	"context"

	"github.com/google/uuid"
)

// RoomRepository defines the persistence contract for rooms.
type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByNumber returns nil, nil when no room carries number.
	FindByNumber(ctx context.Context, number int) (*Room, error)

	// List returns every room ordered by room number.
	List(ctx context.Context) ([]*Room, error)

	// FindByCapacity returns the rooms that fit the party, cheapest first and
	// then by room number.
	FindByCapacity(ctx context.Context, adults, children int) ([]*Room, error)

	Save(ctx context.Context, room *Room) error
	Update(ctx context.Context, room *Room) error

	// Delete removes the room and its amenities. It fails with a validation
	// error when bookings still reference the room.
	Delete(ctx context.Context, id uuid.UUID) error
}
