package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelbooking/service-booking/internal/domain/amenity"
	"github.com/hotelbooking/service-booking/internal/domain/catalog"
	roomDomain "github.com/hotelbooking/service-booking/internal/domain/room"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/cache"
)

// RoomAmenityRequest links an amenity type to a room.
type RoomAmenityRequest struct {
	RoomID        uuid.UUID `json:"room_id" binding:"required"`
	AmenityTypeID uuid.UUID `json:"amenity_type_id" binding:"required"`
	Notes         string    `json:"notes"`
}

// RoomAmenityDTO is the response representation of a room amenity.
type RoomAmenityDTO struct {
	ID            uuid.UUID `json:"id"`
	RoomID        uuid.UUID `json:"room_id"`
	AmenityTypeID uuid.UUID `json:"amenity_type_id"`
	IsAvailable   bool      `json:"is_available"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RoomAmenityService manages which amenities each room offers.
type RoomAmenityService struct {
	repo   amenity.Repository
	rooms  roomDomain.RoomRepository
	types  catalog.Repository
	cache  cache.Cache
	logger *zap.Logger
}

// NewRoomAmenityService creates a new RoomAmenityService. types must be the
// amenity catalog.
func NewRoomAmenityService(
	repo amenity.Repository,
	rooms roomDomain.RoomRepository,
	types catalog.Repository,
	c cache.Cache,
	logger *zap.Logger,
) *RoomAmenityService {
	return &RoomAmenityService{repo: repo, rooms: rooms, types: types, cache: c, logger: logger}
}

// List returns every room amenity.
func (s *RoomAmenityService) List(ctx context.Context) ([]RoomAmenityDTO, error) {
	return readThrough(ctx, s.cache, s.logger, cache.RoomAmenities, listKey, func() ([]RoomAmenityDTO, error) {
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return toRoomAmenityDTOs(items), nil
	})
}

// ListByRoom returns the amenities of one room.
func (s *RoomAmenityService) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]RoomAmenityDTO, error) {
	return readThrough(ctx, s.cache, s.logger, cache.RoomAmenities, "room:"+roomID.String(), func() ([]RoomAmenityDTO, error) {
		items, err := s.repo.ListByRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		return toRoomAmenityDTOs(items), nil
	})
}

// Get returns a room amenity by id.
func (s *RoomAmenityService) Get(ctx context.Context, id uuid.UUID) (*RoomAmenityDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toRoomAmenityDTO(a)
	return &dto, nil
}

// Create links an existing amenity type to an existing room.
func (s *RoomAmenityService) Create(ctx context.Context, req RoomAmenityRequest) (*RoomAmenityDTO, error) {
	if _, err := s.rooms.FindByID(ctx, req.RoomID); err != nil {
		return nil, err
	}
	if _, err := s.types.FindByID(ctx, req.AmenityTypeID); err != nil {
		return nil, err
	}

	a, err := amenity.NewRoomAmenity(req.RoomID, req.AmenityTypeID, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}

	evictNamespace(ctx, s.cache, s.logger, cache.RoomAmenities)
	s.logger.Info("room amenity created",
		zap.String("room_amenity_id", a.ID().String()),
		zap.String("room_id", a.RoomID().String()),
	)

	dto := toRoomAmenityDTO(a)
	return &dto, nil
}

// Delete removes a room amenity.
func (s *RoomAmenityService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	evictNamespace(ctx, s.cache, s.logger, cache.RoomAmenities)
	s.logger.Info("room amenity deleted", zap.String("room_amenity_id", id.String()))
	return nil
}

// DeleteAllByRoom removes every amenity of a room. A room without amenities is
// reported as not found.
func (s *RoomAmenityService) DeleteAllByRoom(ctx context.Context, roomID uuid.UUID) error {
	n, err := s.repo.DeleteByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFoundMessage("Room amenity with room ID " + roomID.String() + " does not exist.")
	}
	evictNamespace(ctx, s.cache, s.logger, cache.RoomAmenities)
	s.logger.Info("room amenities deleted", zap.String("room_id", roomID.String()), zap.Int64("count", n))
	return nil
}

func toRoomAmenityDTOs(items []*amenity.RoomAmenity) []RoomAmenityDTO {
	out := make([]RoomAmenityDTO, len(items))
	for i, a := range items {
		out[i] = toRoomAmenityDTO(a)
	}
	return out
}

func toRoomAmenityDTO(a *amenity.RoomAmenity) RoomAmenityDTO {
	return RoomAmenityDTO{
		ID:            a.ID(),
		RoomID:        a.RoomID(),
		AmenityTypeID: a.AmenityTypeID(),
		IsAvailable:   a.Available(),
		Notes:         a.Notes(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
	}
}
