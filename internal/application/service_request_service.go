package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/domain/catalog"
	"github.com/hotelbooking/service-booking/internal/domain/servicerequest"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/auth"
	"github.com/hotelbooking/service-booking/internal/platform/cache"
)

// ServiceRequestRequest orders a service for a booking.
type ServiceRequestRequest struct {
	BookingID     uuid.UUID `json:"booking_id" binding:"required"`
	ServiceTypeID uuid.UUID `json:"service_type_id" binding:"required"`
	ServiceDate   string    `json:"service_date" binding:"required"`
	AmountCents   int64     `json:"amount_cents" binding:"required"`
	Quantity      int       `json:"quantity"`
	Notes         string    `json:"notes"`
}

// ServiceRequestDTO is the response representation of a service request.
type ServiceRequestDTO struct {
	ID               uuid.UUID `json:"id"`
	BookingID        uuid.UUID `json:"booking_id"`
	RoomID           uuid.UUID `json:"room_id"`
	ServiceTypeID    uuid.UUID `json:"service_type_id"`
	ServiceDate      string    `json:"service_date"`
	AmountCents      int64     `json:"amount_cents"`
	Quantity         int       `json:"quantity"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ServiceRequestService manages services ordered against bookings.
type ServiceRequestService struct {
	repo     servicerequest.Repository
	bookings bookingDomain.BookingRepository
	types    catalog.Repository
	cache    cache.Cache
	clock    Clock
	logger   *zap.Logger
}

// NewServiceRequestService creates a new ServiceRequestService. types must be
// the service catalog.
func NewServiceRequestService(
	repo servicerequest.Repository,
	bookings bookingDomain.BookingRepository,
	types catalog.Repository,
	c cache.Cache,
	clock Clock,
	logger *zap.Logger,
) *ServiceRequestService {
	return &ServiceRequestService{
		repo:     repo,
		bookings: bookings,
		types:    types,
		cache:    c,
		clock:    clock,
		logger:   logger,
	}
}

// List returns every service request.
func (s *ServiceRequestService) List(ctx context.Context) ([]ServiceRequestDTO, error) {
	return readThrough(ctx, s.cache, s.logger, cache.RoomServices, listKey, func() ([]ServiceRequestDTO, error) {
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return toServiceRequestDTOs(items), nil
	})
}

// ListByBooking returns the service requests of a booking the caller may access.
func (s *ServiceRequestService) ListByBooking(ctx context.Context, caller auth.Caller, bookingID uuid.UUID) ([]ServiceRequestDTO, error) {
	if err := s.authorize(ctx, caller, bookingID, "view"); err != nil {
		return nil, err
	}
	return readThrough(ctx, s.cache, s.logger, cache.RoomServices, "booking:"+bookingID.String(), func() ([]ServiceRequestDTO, error) {
		items, err := s.repo.ListByBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return toServiceRequestDTOs(items), nil
	})
}

// Get returns a service request whose booking the caller may access.
func (s *ServiceRequestService) Get(ctx context.Context, caller auth.Caller, id uuid.UUID) (*ServiceRequestDTO, error) {
	sr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, sr.BookingID(), "view"); err != nil {
		return nil, err
	}
	dto := toServiceRequestDTO(sr)
	return &dto, nil
}

// Create orders a service for a booking. The room is taken from the booking.
func (s *ServiceRequestService) Create(ctx context.Context, caller auth.Caller, req ServiceRequestRequest) (*ServiceRequestDTO, error) {
	bk, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(bk.UserID()) {
		return nil, apperror.NewForbiddenError("Access denied: You can only update your own bookings")
	}
	if _, err := s.types.FindByID(ctx, req.ServiceTypeID); err != nil {
		return nil, err
	}

	date, err := bookingDomain.ParseDate(req.ServiceDate)
	if err != nil {
		return nil, err
	}
	sr, err := servicerequest.NewServiceRequest(servicerequest.Params{
		BookingID:     bk.ID(),
		RoomID:        bk.RoomID(),
		ServiceTypeID: req.ServiceTypeID,
		ServiceDate:   date,
		AmountCents:   req.AmountCents,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	}, today(s.clock))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sr); err != nil {
		return nil, err
	}

	evictNamespace(ctx, s.cache, s.logger, cache.RoomServices)
	s.logger.Info("service request created",
		zap.String("service_request_id", sr.ID().String()),
		zap.String("booking_id", sr.BookingID().String()),
	)

	dto := toServiceRequestDTO(sr)
	return &dto, nil
}

// Delete removes a service request.
func (s *ServiceRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	evictNamespace(ctx, s.cache, s.logger, cache.RoomServices)
	s.logger.Info("service request deleted", zap.String("service_request_id", id.String()))
	return nil
}

// DeleteAllByBooking removes every request of a booking. A booking without
// requests is reported as not found.
func (s *ServiceRequestService) DeleteAllByBooking(ctx context.Context, bookingID uuid.UUID) error {
	n, err := s.repo.DeleteByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFoundMessage("Room service with booking ID " + bookingID.String() + " does not exist.")
	}
	evictNamespace(ctx, s.cache, s.logger, cache.RoomServices)
	s.logger.Info("service requests deleted", zap.String("booking_id", bookingID.String()), zap.Int64("count", n))
	return nil
}

func (s *ServiceRequestService) authorize(ctx context.Context, caller auth.Caller, bookingID uuid.UUID, verb string) error {
	if caller.IsAdmin() {
		return nil
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !caller.CanAccess(bk.UserID()) {
		return apperror.NewForbiddenError("Access denied: You can only " + verb + " your own bookings")
	}
	return nil
}

func toServiceRequestDTOs(items []*servicerequest.ServiceRequest) []ServiceRequestDTO {
	out := make([]ServiceRequestDTO, len(items))
	for i, sr := range items {
		out[i] = toServiceRequestDTO(sr)
	}
	return out
}

func toServiceRequestDTO(sr *servicerequest.ServiceRequest) ServiceRequestDTO {
	return ServiceRequestDTO{
		ID:               sr.ID(),
		BookingID:        sr.BookingID(),
		RoomID:           sr.RoomID(),
		ServiceTypeID:    sr.ServiceTypeID(),
		ServiceDate:      formatDate(sr.ServiceDate()),
		AmountCents:      sr.AmountCents(),
		Quantity:         sr.Quantity(),
		TotalAmountCents: sr.TotalAmountCents(),
		Status:           string(sr.Status()),
		Notes:            sr.Notes(),
		CreatedAt:        sr.CreatedAt(),
		UpdatedAt:        sr.UpdatedAt(),
	}
}
