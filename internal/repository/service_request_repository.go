package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelbooking/service-booking/internal/domain/servicerequest"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// ServiceRequestModel is the GORM model for the room_services table.
type ServiceRequestModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID     uuid.UUID `gorm:"type:uuid;not null;index"`
	RoomID        uuid.UUID `gorm:"type:uuid;not null"`
	ServiceTypeID uuid.UUID `gorm:"type:uuid;not null"`
	ServiceDate   time.Time `gorm:"type:date;not null"`
	AmountCents   int64     `gorm:"not null"`
	Quantity      int       `gorm:"not null;default:1"`
	Status        string    `gorm:"type:varchar(20);not null"`
	Notes         string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (ServiceRequestModel) TableName() string { return "room_services" }

// GormServiceRequestRepository implements servicerequest.Repository using GORM.
type GormServiceRequestRepository struct {
	db *gorm.DB
}

// NewGormServiceRequestRepository creates a new GormServiceRequestRepository.
func NewGormServiceRequestRepository(db *gorm.DB) *GormServiceRequestRepository {
	return &GormServiceRequestRepository{db: db}
}

// FindByID returns a single service request by ID.
func (r *GormServiceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*servicerequest.ServiceRequest, error) {
	var model ServiceRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Room service", id.String(), "find service request")
	}
	return toServiceRequestDomain(&model), nil
}

// List returns every service request ordered by service date.
func (r *GormServiceRequestRepository) List(ctx context.Context) ([]*servicerequest.ServiceRequest, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByBooking returns all service requests for a booking.
func (r *GormServiceRequestRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*servicerequest.ServiceRequest, error) {
	return r.find(r.db.WithContext(ctx).Where("booking_id = ?", bookingID))
}

func (r *GormServiceRequestRepository) find(query *gorm.DB) ([]*servicerequest.ServiceRequest, error) {
	var models []ServiceRequestModel
	if err := query.Order("service_date ASC").Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, translateError(err, "list service requests")
	}

	items := make([]*servicerequest.ServiceRequest, len(models))
	for i := range models {
		items[i] = toServiceRequestDomain(&models[i])
	}
	return items, nil
}

// Save persists a new service request.
func (r *GormServiceRequestRepository) Save(ctx context.Context, sr *servicerequest.ServiceRequest) error {
	model := toServiceRequestModel(sr)
	return translateError(r.db.WithContext(ctx).Create(&model).Error, "save service request")
}

// Delete removes a service request.
func (r *GormServiceRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ServiceRequestModel{})
	if result.Error != nil {
		return translateError(result.Error, "delete service request")
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Room service", id.String())
	}
	return nil
}

// DeleteByBooking removes every service request of a booking.
func (r *GormServiceRequestRepository) DeleteByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Delete(&ServiceRequestModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete service requests of booking %s: %w", bookingID, result.Error)
	}
	return result.RowsAffected, nil
}

func toServiceRequestModel(sr *servicerequest.ServiceRequest) ServiceRequestModel {
	return ServiceRequestModel{
		ID:            sr.ID(),
		BookingID:     sr.BookingID(),
		RoomID:        sr.RoomID(),
		ServiceTypeID: sr.ServiceTypeID(),
		ServiceDate:   sr.ServiceDate(),
		AmountCents:   sr.AmountCents(),
		Quantity:      sr.Quantity(),
		Status:        string(sr.Status()),
		Notes:         sr.Notes(),
		CreatedAt:     sr.CreatedAt(),
		UpdatedAt:     sr.UpdatedAt(),
	}
}

func toServiceRequestDomain(m *ServiceRequestModel) *servicerequest.ServiceRequest {
	return servicerequest.ReconstructServiceRequest(
		m.ID,
		m.BookingID,
		m.RoomID,
		m.ServiceTypeID,
		m.ServiceDate,
		m.AmountCents,
		m.Quantity,
		servicerequest.Status(m.Status),
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
