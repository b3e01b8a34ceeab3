package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelbooking/service-booking/internal/domain/availability"
	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	roomDomain "github.com/hotelbooking/service-booking/internal/domain/room"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/cache"
	"github.com/hotelbooking/service-booking/internal/platform/metrics"
)

// RoomRequest holds the data needed to create or update a room.
type RoomRequest struct {
	RoomNumber       int   `json:"room_number" binding:"required"`
	PriceCents       int64 `json:"price_cents" binding:"required"`
	AdultCapacity    int   `json:"adult_capacity" binding:"required"`
	ChildrenCapacity int   `json:"children_capacity"`
}

// AvailabilityRequest describes the party and stay a room is wanted for.
type AvailabilityRequest struct {
	NumberOfAdults   int    `json:"number_of_adults" binding:"required"`
	NumberOfChildren int    `json:"number_of_children"`
	CheckInDate      string `json:"check_in_date" binding:"required"`
	CheckOutDate     string `json:"check_out_date" binding:"required"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID               uuid.UUID `json:"id"`
	RoomNumber       int       `json:"room_number"`
	PriceCents       int64     `json:"price_cents"`
	AdultCapacity    int       `json:"adult_capacity"`
	ChildrenCapacity int       `json:"children_capacity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const listKey = "all"

// RoomService manages rooms and answers availability searches.
type RoomService struct {
	rooms    roomDomain.RoomRepository
	bookings bookingDomain.BookingRepository
	cache    cache.Cache
	clock    Clock
	logger   *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(
	rooms roomDomain.RoomRepository,
	bookings bookingDomain.BookingRepository,
	c cache.Cache,
	clock Clock,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		rooms:    rooms,
		bookings: bookings,
		cache:    c,
		clock:    clock,
		logger:   logger,
	}
}

// ListRooms returns every room ordered by room number.
func (s *RoomService) ListRooms(ctx context.Context) ([]RoomDTO, error) {
	return readThrough(ctx, s.cache, s.logger, cache.Rooms, listKey, func() ([]RoomDTO, error) {
		rooms, err := s.rooms.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]RoomDTO, len(rooms))
		for i, r := range rooms {
			out[i] = toRoomDTO(r)
		}
		return out, nil
	})
}

// GetRoom returns a room by id.
func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*RoomDTO, error) {
	dto, err := readThrough(ctx, s.cache, s.logger, cache.Rooms, id.String(), func() (RoomDTO, error) {
		r, err := s.rooms.FindByID(ctx, id)
		if err != nil {
			return RoomDTO{}, err
		}
		return toRoomDTO(r), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// CreateRoom adds a room. Room numbers are unique.
func (s *RoomService) CreateRoom(ctx context.Context, req RoomRequest) (*RoomDTO, error) {
	r, err := roomDomain.NewRoom(req.RoomNumber, req.PriceCents, req.AdultCapacity, req.ChildrenCapacity)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, req.RoomNumber, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, r); err != nil {
		return nil, err
	}

	s.invalidate(ctx, r.ID())
	s.logger.Info("room created", zap.String("room_id", r.ID().String()), zap.Int("room_number", r.Number()))

	dto := toRoomDTO(r)
	return &dto, nil
}

// UpdateRoom replaces a room's attributes.
func (s *RoomService) UpdateRoom(ctx context.Context, id uuid.UUID, req RoomRequest) (*RoomDTO, error) {
	r, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RoomNumber != r.Number() {
		if err := s.ensureNumberFree(ctx, req.RoomNumber, id); err != nil {
			return nil, err
		}
	}
	if err := r.Update(req.RoomNumber, req.PriceCents, req.AdultCapacity, req.ChildrenCapacity); err != nil {
		return nil, err
	}
	if err := s.rooms.Update(ctx, r); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("room updated", zap.String("room_id", id.String()))

	dto := toRoomDTO(r)
	return &dto, nil
}

// DeleteRoom removes a room and its amenities. Rooms with bookings are kept.
func (s *RoomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	evictNamespace(ctx, s.cache, s.logger, cache.RoomAmenities)
	s.logger.Info("room deleted", zap.String("room_id", id.String()))
	return nil
}

// FindAvailableRoom returns the cheapest room that fits the party and is free
// for the whole stay.
func (s *RoomService) FindAvailableRoom(ctx context.Context, req AvailabilityRequest) (*RoomDTO, error) {
	checkIn, err := bookingDomain.ParseDate(req.CheckInDate)
	if err != nil {
		return nil, err
	}
	checkOut, err := bookingDomain.ParseDate(req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	criteria, err := availability.NewCriteria(req.NumberOfAdults, req.NumberOfChildren, checkIn, checkOut, today(s.clock))
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d:%d:%s:%s", criteria.Adults, criteria.Children,
		formatDate(criteria.Stay.CheckIn), formatDate(criteria.Stay.CheckOut))

	// A miss is cached as a nil pointer so repeated fruitless searches stay cheap.
	found, err := readThrough(ctx, s.cache, s.logger, cache.AvailableRooms, key, func() (*RoomDTO, error) {
		candidates, err := s.rooms.FindByCapacity(ctx, criteria.Adults, criteria.Children)
		if err != nil {
			return nil, err
		}
		occupancies, err := s.bookings.FindOccupancies(ctx, criteria.Stay)
		if err != nil {
			return nil, err
		}
		r := availability.SelectCheapest(criteria, candidates, occupancies)
		if r == nil {
			return nil, nil
		}
		dto := toRoomDTO(r)
		return &dto, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncAvailabilityLookup(found != nil)
	if found == nil {
		return nil, apperror.NewNotFoundMessage("No available room")
	}
	return found, nil
}

func (s *RoomService) ensureNumberFree(ctx context.Context, number int, self uuid.UUID) error {
	existing, err := s.rooms.FindByNumber(ctx, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID() != self {
		return apperror.NewConflictError(fmt.Sprintf("Room number %d already exists.", number))
	}
	return nil
}

// invalidate drops the room's cache entries. Cached bookings embed the room
// number, so booking views are dropped as well.
func (s *RoomService) invalidate(ctx context.Context, id uuid.UUID) {
	evict(ctx, s.cache, s.logger, cache.Rooms, id.String())
	evict(ctx, s.cache, s.logger, cache.Rooms, listKey)
	evictNamespace(ctx, s.cache, s.logger, cache.AvailableRooms, cache.Bookings, cache.UserBookings)
}

func toRoomDTO(r *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:               r.ID(),
		RoomNumber:       r.Number(),
		PriceCents:       r.PriceCents(),
		AdultCapacity:    r.AdultCapacity(),
		ChildrenCapacity: r.ChildrenCapacity(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}
