package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	roomDomain "github.com/hotelbooking/service-booking/internal/domain/room"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomNumber       int       `gorm:"uniqueIndex;not null"`
	PriceCents       int64     `gorm:"not null"`
	AdultCapacity    int       `gorm:"not null"`
	ChildrenCapacity int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room by its unique identifier.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Room", id.String(), "find room by ID")
	}
	return toDomainRoom(&model), nil
}

// FindByNumber retrieves a room by its number, or nil when none exists.
func (r *GormRoomRepository) FindByNumber(ctx context.Context, number int) (*roomDomain.Room, error) {
	var model RoomModel
	err := r.db.WithContext(ctx).Where("room_number = ?", number).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "find room by number")
	}
	return toDomainRoom(&model), nil
}

// List retrieves every room ordered by room number.
func (r *GormRoomRepository) List(ctx context.Context) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).Order("room_number ASC").Find(&models).Error; err != nil {
		return nil, translateError(err, "list rooms")
	}
	return toDomainRooms(models), nil
}

// FindByCapacity retrieves the rooms able to hold the party, cheapest first.
func (r *GormRoomRepository) FindByCapacity(ctx context.Context, adults, children int) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("adult_capacity >= ? AND adult_capacity + children_capacity >= ?", adults, adults+children).
		Order("price_cents ASC").
		Order("room_number ASC").
		Find(&models).Error; err != nil {
		return nil, translateError(err, "find rooms by capacity")
	}
	return toDomainRooms(models), nil
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	model := toRoomModel(rm)
	return translateError(r.db.WithContext(ctx).Create(&model).Error, "save room")
}

// Update persists changes to an existing room.
func (r *GormRoomRepository) Update(ctx context.Context, rm *roomDomain.Room) error {
	model := toRoomModel(rm)
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"room_number":       model.RoomNumber,
			"price_cents":       model.PriceCents,
			"adult_capacity":    model.AdultCapacity,
			"children_capacity": model.ChildrenCapacity,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "update room")
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Room", model.ID.String())
	}
	return nil
}

// Delete removes a room and its amenities unless bookings still reference it.
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bookings int64
		if err := tx.Model(&BookingModel{}).Where("room_id = ?", id).Count(&bookings).Error; err != nil {
			return translateError(err, "count room bookings")
		}
		if bookings > 0 {
			return apperror.NewValidationError("Cannot delete a room that has bookings")
		}

		if err := tx.Where("room_id = ?", id).Delete(&RoomAmenityModel{}).Error; err != nil {
			return translateError(err, "delete room amenities")
		}
		result := tx.Where("id = ?", id).Delete(&RoomModel{})
		if result.Error != nil {
			return translateError(result.Error, "delete room")
		}
		if result.RowsAffected == 0 {
			return apperror.NewNotFoundError("Room", id.String())
		}
		return nil
	})
}

// --- Conversion Helpers ---

func toRoomModel(rm *roomDomain.Room) RoomModel {
	return RoomModel{
		ID:               rm.ID(),
		RoomNumber:       rm.Number(),
		PriceCents:       rm.PriceCents(),
		AdultCapacity:    rm.AdultCapacity(),
		ChildrenCapacity: rm.ChildrenCapacity(),
		CreatedAt:        rm.CreatedAt(),
		UpdatedAt:        rm.UpdatedAt(),
	}
}

func toDomainRoom(m *RoomModel) *roomDomain.Room {
	return roomDomain.ReconstructRoom(
		m.ID,
		m.RoomNumber,
		m.PriceCents,
		m.AdultCapacity,
		m.ChildrenCapacity,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainRooms(models []RoomModel) []*roomDomain.Room {
	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rooms[i] = toDomainRoom(&models[i])
	}
	return rooms
}
