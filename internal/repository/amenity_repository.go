package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelbooking/service-booking/internal/domain/amenity"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// RoomAmenityModel is the GORM model for the room_amenities table.
type RoomAmenityModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AmenityTypeID uuid.UUID `gorm:"type:uuid;not null"`
	IsAvailable   bool      `gorm:"not null"`
	Notes         string    `gorm:"size:500"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (RoomAmenityModel) TableName() string { return "room_amenities" }

// GormRoomAmenityRepository implements amenity.Repository using GORM.
type GormRoomAmenityRepository struct {
	db *gorm.DB
}

// NewGormRoomAmenityRepository creates a new GormRoomAmenityRepository.
func NewGormRoomAmenityRepository(db *gorm.DB) *GormRoomAmenityRepository {
	return &GormRoomAmenityRepository{db: db}
}

// FindByID returns a single room amenity by ID.
func (r *GormRoomAmenityRepository) FindByID(ctx context.Context, id uuid.UUID) (*amenity.RoomAmenity, error) {
	var model RoomAmenityModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Room amenity", id.String(), "find room amenity")
	}
	return toAmenityDomain(&model), nil
}

// List returns every room amenity.
func (r *GormRoomAmenityRepository) List(ctx context.Context) ([]*amenity.RoomAmenity, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByRoom returns the amenities of one room.
func (r *GormRoomAmenityRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*amenity.RoomAmenity, error) {
	return r.find(r.db.WithContext(ctx).Where("room_id = ?", roomID))
}

func (r *GormRoomAmenityRepository) find(query *gorm.DB) ([]*amenity.RoomAmenity, error) {
	var models []RoomAmenityModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, translateError(err, "list room amenities")
	}

	items := make([]*amenity.RoomAmenity, len(models))
	for i := range models {
		items[i] = toAmenityDomain(&models[i])
	}
	return items, nil
}

// Save persists a new room amenity.
func (r *GormRoomAmenityRepository) Save(ctx context.Context, a *amenity.RoomAmenity) error {
	model := toAmenityModel(a)
	return translateError(r.db.WithContext(ctx).Create(&model).Error, "save room amenity")
}

// Delete removes a room amenity.
func (r *GormRoomAmenityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RoomAmenityModel{})
	if result.Error != nil {
		return translateError(result.Error, "delete room amenity")
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Room amenity", id.String())
	}
	return nil
}

// DeleteByRoom removes every amenity of a room.
func (r *GormRoomAmenityRepository) DeleteByRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&RoomAmenityModel{})
	if result.Error != nil {
		return 0, translateError(result.Error, "delete room amenities")
	}
	return result.RowsAffected, nil
}

func toAmenityModel(a *amenity.RoomAmenity) RoomAmenityModel {
	return RoomAmenityModel{
		ID:            a.ID(),
		RoomID:        a.RoomID(),
		AmenityTypeID: a.AmenityTypeID(),
		IsAvailable:   a.Available(),
		Notes:         a.Notes(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
	}
}

func toAmenityDomain(m *RoomAmenityModel) *amenity.RoomAmenity {
	return amenity.ReconstructRoomAmenity(
		m.ID,
		m.RoomID,
		m.AmenityTypeID,
		m.IsAvailable,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
