// Package amenity links rooms to the amenity types they offer.
package amenity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// RoomAmenity records that a room offers an amenity type.
type RoomAmenity struct {
	id            uuid.UUID
	roomID        uuid.UUID
	amenityTypeID uuid.UUID
	available     bool
	notes         string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewRoomAmenity links roomID to amenityTypeID. New links are available.
func NewRoomAmenity(roomID, amenityTypeID uuid.UUID, notes string) (*RoomAmenity, error) {
	if roomID == uuid.Nil {
		return nil, apperror.NewValidationError("Room is required")
	}
	if amenityTypeID == uuid.Nil {
		return nil, apperror.NewValidationError("Amenity type is required")
	}
	now := time.Now().UTC()
	return &RoomAmenity{
		id:            uuid.New(),
		roomID:        roomID,
		amenityTypeID: amenityTypeID,
		available:     true,
		notes:         strings.TrimSpace(notes),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructRoomAmenity rebuilds a RoomAmenity from persistence data (no validation).
func ReconstructRoomAmenity(id, roomID, amenityTypeID uuid.UUID, available bool, notes string, createdAt, updatedAt time.Time) *RoomAmenity {
	return &RoomAmenity{
		id:            id,
		roomID:        roomID,
		amenityTypeID: amenityTypeID,
		available:     available,
		notes:         notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (a *RoomAmenity) ID() uuid.UUID            { return a.id }
func (a *RoomAmenity) RoomID() uuid.UUID        { return a.roomID }
func (a *RoomAmenity) AmenityTypeID() uuid.UUID { return a.amenityTypeID }
func (a *RoomAmenity) Available() bool          { return a.available }
func (a *RoomAmenity) Notes() string            { return a.notes }
func (a *RoomAmenity) CreatedAt() time.Time     { return a.createdAt }
func (a *RoomAmenity) UpdatedAt() time.Time     { return a.updatedAt }

// Repository persists room amenities.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RoomAmenity, error)
	List(ctx context.Context) ([]*RoomAmenity, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*RoomAmenity, error)

	// Save fails with a conflict error when the room already has the amenity type.
	Save(ctx context.Context, a *RoomAmenity) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByRoom removes every amenity of roomID and returns how many there were.
	DeleteByRoom(ctx context.Context, roomID uuid.UUID) (int64, error)
}
