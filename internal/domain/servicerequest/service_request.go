// Package servicerequest models extra services guests order during a booking.
package servicerequest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// Status is the fulfilment state of a service request.
type Status string

const (
	StatusRequested  Status = "REQUESTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// ServiceRequest is a service of a given type ordered for a booked room.
type ServiceRequest struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	roomID        uuid.UUID
	serviceTypeID uuid.UUID
	serviceDate   time.Time
	amountCents   int64
	quantity      int
	status        Status
	notes         string
	createdAt     time.Time
	updatedAt     time.Time
}

// Params are the caller-supplied fields of a new request.
type Params struct {
	BookingID     uuid.UUID
	RoomID        uuid.UUID
	ServiceTypeID uuid.UUID
	ServiceDate   time.Time
	AmountCents   int64
	Quantity      int
	Notes         string
}

// NewServiceRequest validates p against today and creates a REQUESTED request.
// A zero quantity defaults to one.
func NewServiceRequest(p Params, today time.Time) (*ServiceRequest, error) {
	if p.BookingID == uuid.Nil || p.RoomID == uuid.Nil {
		return nil, apperror.NewValidationError("Booking is required")
	}
	if p.ServiceTypeID == uuid.Nil {
		return nil, apperror.NewValidationError("Service type is required")
	}
	if p.ServiceDate.IsZero() {
		return nil, apperror.NewValidationError("Date is required")
	}
	if p.ServiceDate.Before(today) {
		return nil, apperror.NewValidationError("Date must be today or in the future")
	}
	if p.AmountCents <= 0 {
		return nil, apperror.NewValidationError("Amount must be greater than 0")
	}
	if p.Quantity == 0 {
		p.Quantity = 1
	}
	if p.Quantity < 1 {
		return nil, apperror.NewValidationError("Quantity must be at least 1")
	}

	now := time.Now().UTC()
	return &ServiceRequest{
		id:            uuid.New(),
		bookingID:     p.BookingID,
		roomID:        p.RoomID,
		serviceTypeID: p.ServiceTypeID,
		serviceDate:   p.ServiceDate,
		amountCents:   p.AmountCents,
		quantity:      p.Quantity,
		status:        StatusRequested,
		notes:         strings.TrimSpace(p.Notes),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructServiceRequest rebuilds a ServiceRequest from persistence data (no validation).
func ReconstructServiceRequest(
	id, bookingID, roomID, serviceTypeID uuid.UUID,
	serviceDate time.Time,
	amountCents int64,
	quantity int,
	status Status,
	notes string,
	createdAt, updatedAt time.Time,
) *ServiceRequest {
	return &ServiceRequest{
		id:            id,
		bookingID:     bookingID,
		roomID:        roomID,
		serviceTypeID: serviceTypeID,
		serviceDate:   serviceDate,
		amountCents:   amountCents,
		quantity:      quantity,
		status:        status,
		notes:         notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (s *ServiceRequest) ID() uuid.UUID            { return s.id }
func (s *ServiceRequest) BookingID() uuid.UUID     { return s.bookingID }
func (s *ServiceRequest) RoomID() uuid.UUID        { return s.roomID }
func (s *ServiceRequest) ServiceTypeID() uuid.UUID { return s.serviceTypeID }
func (s *ServiceRequest) ServiceDate() time.Time   { return s.serviceDate }
func (s *ServiceRequest) AmountCents() int64       { return s.amountCents }
func (s *ServiceRequest) Quantity() int            { return s.quantity }
func (s *ServiceRequest) Status() Status           { return s.status }
func (s *ServiceRequest) Notes() string            { return s.notes }
func (s *ServiceRequest) CreatedAt() time.Time     { return s.createdAt }
func (s *ServiceRequest) UpdatedAt() time.Time     { return s.updatedAt }

// TotalAmountCents is the unit amount times the quantity.
func (s *ServiceRequest) TotalAmountCents() int64 {
	return s.amountCents * int64(s.quantity)
}

// Repository persists service requests.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceRequest, error)
	List(ctx context.Context) ([]*ServiceRequest, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*ServiceRequest, error)
	Save(ctx context.Context, s *ServiceRequest) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByBooking removes every request of bookingID and returns how many there were.
	DeleteByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error)
}
