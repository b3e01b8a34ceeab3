package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	roomDomain "github.com/hotelbooking/service-booking/internal/domain/room"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/auth"
	"github.com/hotelbooking/service-booking/internal/platform/cache"
	"github.com/hotelbooking/service-booking/internal/platform/kafka"
	"github.com/hotelbooking/service-booking/internal/platform/metrics"
	"github.com/hotelbooking/service-booking/internal/platform/pagination"
)

// BookingRequest holds the data needed to create or update a booking.
type BookingRequest struct {
	FirstName        string    `json:"first_name" binding:"required"`
	LastName         string    `json:"last_name" binding:"required"`
	Email            string    `json:"email" binding:"omitempty,email"`
	PhoneNumber      string    `json:"phone_number"`
	SpecialRequests  string    `json:"special_requests"`
	CheckInDate      string    `json:"checked_in_date"`
	CheckOutDate     string    `json:"checked_out_date"`
	AdultCapacity    int       `json:"adult_capacity" binding:"required"`
	ChildrenCapacity int       `json:"children_capacity"`
	RoomID           uuid.UUID `json:"room_id" binding:"required"`
}

// StatusRequest carries the target status of a transition.
type StatusRequest struct {
	BookingStatus string `json:"booking_status" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email,omitempty"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
	SpecialRequests  string    `json:"special_requests,omitempty"`
	CheckInDate      string    `json:"checked_in_date"`
	CheckOutDate     string    `json:"checked_out_date"`
	AdultCapacity    int       `json:"adult_capacity"`
	ChildrenCapacity int       `json:"children_capacity"`
	Night            int       `json:"night"`
	RoomID           uuid.UUID `json:"room_id"`
	RoomNumber       int       `json:"room_number"`
	BookingStatus    string    `json:"booking_status"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	UserID           string    `json:"user_id,omitempty"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BookingStatsDTO summarizes bookings by status.
type BookingStatsDTO struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	rooms     roomDomain.RoomRepository
	pricing   bookingDomain.PricingStrategy
	publisher kafka.EventPublisher
	topic     string
	cache     cache.Cache
	clock     Clock
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	rooms roomDomain.RoomRepository,
	pricing bookingDomain.PricingStrategy,
	publisher kafka.EventPublisher,
	topic string,
	c cache.Cache,
	clock Clock,
	logger *zap.Logger,
) *BookingService {
	if topic == "" {
		topic = bookingDomain.DefaultEventTopic
	}
	return &BookingService{
		repo:      repo,
		rooms:     rooms,
		pricing:   pricing,
		publisher: publisher,
		topic:     topic,
		cache:     c,
		clock:     clock,
		logger:    logger,
	}
}

// CreateBooking books a room for the caller after re-checking availability.
func (s *BookingService) CreateBooking(ctx context.Context, caller auth.Caller, req BookingRequest) (*BookingDTO, error) {
	details, err := s.parseDetails(req)
	if err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(details, rm, caller.UserID, s.pricing, today(s.clock))
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateIfAvailable(ctx, bk); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.invalidate(ctx, bk.ID())
	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("room_id", bk.RoomID().String()),
		zap.String("user_id", bk.UserID()),
	)
	s.publish(ctx, bookingDomain.EventCreated, bookingDomain.NewLifecycleEvent(bk))

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns a booking the caller owns, or any booking for admins.
func (s *BookingService) GetBooking(ctx context.Context, caller auth.Caller, id uuid.UUID) (*BookingDTO, error) {
	dto, err := readThrough(ctx, s.cache, s.logger, cache.Bookings, id.String(), func() (BookingDTO, error) {
		bk, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return BookingDTO{}, err
		}
		return toBookingDTO(bk), nil
	})
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(dto.UserID) {
		return nil, apperror.NewForbiddenError("Access denied: You can only view your own bookings")
	}
	return &dto, nil
}

// ListBookings returns one page of bookings. Non-admin callers only see their own.
func (s *BookingService) ListBookings(ctx context.Context, caller auth.Caller, page pagination.Request) (pagination.Result[BookingDTO], error) {
	page = page.Normalize(bookingDomain.SortFields, bookingDomain.DefaultSort)

	filter := bookingDomain.ListFilter{Page: page}
	if caller.IsAdmin() {
		return s.listBookings(ctx, filter)
	}

	filter.UserID = caller.UserID
	key := fmt.Sprintf("%s:%d:%d:%s:%s:%s", caller.UserID, page.Page, page.Size, page.Sort, page.Direction, page.Search)
	return readThrough(ctx, s.cache, s.logger, cache.UserBookings, key, func() (pagination.Result[BookingDTO], error) {
		return s.listBookings(ctx, filter)
	})
}

func (s *BookingService) listBookings(ctx context.Context, filter bookingDomain.ListFilter) (pagination.Result[BookingDTO], error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Result[BookingDTO]{}, err
	}

	return pagination.Map(pagination.NewResult(bookings, total, filter.Page), toBookingDTO), nil
}

// UpdateBooking replaces a booking's details and room. Availability is
// re-checked against the target room, ignoring the booking itself.
func (s *BookingService) UpdateBooking(ctx context.Context, caller auth.Caller, id uuid.UUID, req BookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(bk.UserID()) {
		return nil, apperror.NewForbiddenError("Access denied: You can only update your own bookings")
	}

	details, err := s.parseDetails(req)
	if err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	previousRoom := bk.RoomID()
	if err := bk.Update(details, rm, s.pricing, today(s.clock)); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.UpdateIfAvailable(ctx, bk); err != nil {
		if errors.Is(err, bookingDomain.ErrRoomUnavailable) && previousRoom != rm.ID() {
			return nil, bookingDomain.ErrNewRoomUnavailable
		}
		return nil, err
	}

	s.invalidate(ctx, bk.ID())
	s.logger.Info("booking updated",
		zap.String("booking_id", bk.ID().String()),
		zap.String("room_id", bk.RoomID().String()),
	)

	evt := bookingDomain.NewLifecycleEvent(bk)
	if previousRoom != bk.RoomID() {
		evt.PreviousRoomID = &previousRoom
	}
	s.publish(ctx, bookingDomain.EventUpdated, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBookingStatus applies a lifecycle transition.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, caller auth.Caller, id uuid.UUID, status string) (*BookingDTO, error) {
	target, err := bookingDomain.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}

	bk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(bk.UserID()) {
		return nil, apperror.NewForbiddenError("Access denied: You can only update your own bookings")
	}

	previous := bk.Status()
	if err := bk.TransitionTo(target); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.UpdateStatus(ctx, bk); err != nil {
		return nil, err
	}

	metrics.IncStatusTransition(string(previous), string(target))
	s.invalidate(ctx, bk.ID())
	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
	)

	evt := bookingDomain.NewLifecycleEvent(bk)
	evt.PreviousStatus = string(previous)
	s.publish(ctx, bookingDomain.EventStatusChanged, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// DeleteBooking removes a booking and its service requests. Checked-in
// bookings cannot be deleted.
func (s *BookingService) DeleteBooking(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	bk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanAccess(bk.UserID()) {
		return apperror.NewForbiddenError("Access denied: You can only delete your own bookings")
	}
	if err := bk.EnsureDeletable(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.IncBookingDeleted()
	s.invalidate(ctx, id)
	evictNamespace(ctx, s.cache, s.logger, cache.RoomServices)
	s.logger.Info("booking deleted", zap.String("booking_id", id.String()))
	s.publish(ctx, bookingDomain.EventDeleted, bookingDomain.NewLifecycleEvent(bk))
	return nil
}

// GetBookingStats returns booking counts by status.
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &BookingStatsDTO{ByStatus: make(map[string]int64, len(bookingDomain.AllStatuses))}
	for _, st := range bookingDomain.AllStatuses {
		stats.ByStatus[string(st)] = counts[st]
		stats.Total += counts[st]
	}
	return stats, nil
}

// InvalidateBooking drops cached state derived from a booking. It is called for
// changes made by other replicas.
func (s *BookingService) InvalidateBooking(ctx context.Context, id uuid.UUID) {
	s.invalidate(ctx, id)
}

func (s *BookingService) parseDetails(req BookingRequest) (bookingDomain.Details, error) {
	if req.CheckInDate == "" || req.CheckOutDate == "" {
		return bookingDomain.Details{}, apperror.NewValidationError("Check-in and check-out dates are required")
	}
	checkIn, err := bookingDomain.ParseDate(req.CheckInDate)
	if err != nil {
		return bookingDomain.Details{}, err
	}
	checkOut, err := bookingDomain.ParseDate(req.CheckOutDate)
	if err != nil {
		return bookingDomain.Details{}, err
	}
	if _, err := bookingDomain.NewStay(checkIn, checkOut, today(s.clock)); err != nil {
		return bookingDomain.Details{}, err
	}

	return bookingDomain.Details{
		Guest: bookingDomain.Guest{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
		},
		SpecialRequests:  req.SpecialRequests,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		AdultCapacity:    req.AdultCapacity,
		ChildrenCapacity: req.ChildrenCapacity,
	}, nil
}

func (s *BookingService) invalidate(ctx context.Context, id uuid.UUID) {
	evict(ctx, s.cache, s.logger, cache.Bookings, id.String())
	evictNamespace(ctx, s.cache, s.logger, cache.AvailableRooms, cache.UserBookings)
}

func (s *BookingService) publish(ctx context.Context, eventType string, evt bookingDomain.LifecycleEvent) {
	cloudEvent, err := kafka.NewCloudEvent(bookingDomain.EventSource, eventType, evt.BookingID.String(), evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, s.topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	guest := bk.Guest()
	return BookingDTO{
		ID:               bk.ID(),
		FirstName:        guest.FirstName,
		LastName:         guest.LastName,
		Email:            guest.Email,
		PhoneNumber:      guest.PhoneNumber,
		SpecialRequests:  bk.SpecialRequests(),
		CheckInDate:      formatDate(bk.Stay().CheckIn),
		CheckOutDate:     formatDate(bk.Stay().CheckOut),
		AdultCapacity:    bk.AdultCapacity(),
		ChildrenCapacity: bk.ChildrenCapacity(),
		Night:            bk.Nights(),
		RoomID:           bk.RoomID(),
		RoomNumber:       bk.RoomNumber(),
		BookingStatus:    string(bk.Status()),
		TotalAmountCents: bk.TotalAmountCents(),
		UserID:           bk.UserID(),
		Version:          bk.Version(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}
