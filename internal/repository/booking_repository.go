package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName        string     `gorm:"not null;size:100"`
	LastName         string     `gorm:"not null;size:100"`
	Email            string     `gorm:"size:255"`
	PhoneNumber      string     `gorm:"size:50"`
	SpecialRequests  string     `gorm:"size:1000"`
	CheckedInDate    time.Time  `gorm:"type:date;not null"`
	CheckedOutDate   time.Time  `gorm:"type:date;not null"`
	AdultCapacity    int        `gorm:"not null"`
	ChildrenCapacity int        `gorm:"not null;default:0"`
	RoomID           uuid.UUID  `gorm:"type:uuid;index;not null"`
	Room             *RoomModel `gorm:"foreignKey:RoomID"`
	BookingStatus    string     `gorm:"not null;size:20;index"`
	UserID           string     `gorm:"not null;size:255;index"`
	TotalAmountCents int64      `gorm:"not null"`
	Version          int64      `gorm:"not null;default:1"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Preload("Room").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Booking", id.String(), "find booking by ID")
	}
	return toDomainBooking(&model)
}

// List retrieves one page of bookings, optionally restricted to one user and
// filtered by a free-text search over guest name, email, id, status and room number.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if search := strings.ToLower(filter.Page.Search); search != "" {
		like := containsPattern(search)
		query = query.Where(
			`LOWER(first_name || ' ' || last_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' `+
				`OR CAST(id AS text) LIKE ? ESCAPE '\' OR LOWER(booking_status) LIKE ? ESCAPE '\' `+
				`OR room_id IN (SELECT id FROM rooms WHERE CAST(room_number AS text) LIKE ? ESCAPE '\')`,
			like, like, like, like, like,
		)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "count bookings")
	}

	var models []BookingModel
	if err := query.
		Preload("Room").
		Order(filter.Page.OrderClause()).
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Size).
		Find(&models).Error; err != nil {
		return nil, 0, translateError(err, "list bookings")
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

// FindOccupancies returns the active bookings overlapping stay.
func (r *GormBookingRepository) FindOccupancies(ctx context.Context, stay bookingDomain.Stay) ([]bookingDomain.Occupancy, error) {
	var models []BookingModel
	if err := overlapping(r.db.WithContext(ctx), stay).
		Select("id", "room_id", "checked_in_date", "checked_out_date", "booking_status").
		Find(&models).Error; err != nil {
		return nil, translateError(err, "find occupancies")
	}

	occupancies := make([]bookingDomain.Occupancy, 0, len(models))
	for _, m := range models {
		status, err := bookingDomain.ParseBookingStatus(m.BookingStatus)
		if err != nil {
			return nil, err
		}
		occupancies = append(occupancies, bookingDomain.Occupancy{
			BookingID: m.ID,
			RoomID:    m.RoomID,
			Stay:      stayOf(&m),
			Status:    status,
		})
	}
	return occupancies, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[bookingDomain.BookingStatus]int64, error) {
	type statusCount struct {
		BookingStatus string
		Count         int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("booking_status, count(*) as count").
		Group("booking_status").
		Find(&results).Error; err != nil {
		return nil, translateError(err, "count by status")
	}

	counts := make(map[bookingDomain.BookingStatus]int64)
	for _, sc := range results {
		counts[bookingDomain.BookingStatus(sc.BookingStatus)] = sc.Count
	}
	return counts, nil
}

// CreateIfAvailable inserts the booking while holding a row lock on its room.
func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, model.RoomID); err != nil {
			return err
		}
		if err := ensureRoomFree(tx, model.RoomID, model.ID, bk.Stay()); err != nil {
			return err
		}
		return translateError(tx.Omit(clause.Associations).Create(model).Error, "save booking")
	})
}

// UpdateIfAvailable persists an edited booking while holding a row lock on its
// room. Only the version the caller read may be overwritten.
func (r *GormBookingRepository) UpdateIfAvailable(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, model.RoomID); err != nil {
			return err
		}
		if bk.Status().IsActive() {
			if err := ensureRoomFree(tx, model.RoomID, model.ID, bk.Stay()); err != nil {
				return err
			}
		}
		return updateVersioned(tx, model, map[string]interface{}{
			"first_name":         model.FirstName,
			"last_name":          model.LastName,
			"email":              model.Email,
			"phone_number":       model.PhoneNumber,
			"special_requests":   model.SpecialRequests,
			"checked_in_date":    model.CheckedInDate,
			"checked_out_date":   model.CheckedOutDate,
			"adult_capacity":     model.AdultCapacity,
			"children_capacity":  model.ChildrenCapacity,
			"room_id":            model.RoomID,
			"booking_status":     model.BookingStatus,
			"total_amount_cents": model.TotalAmountCents,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	})
}

// UpdateStatus persists a status change with optimistic locking.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	return updateVersioned(r.db.WithContext(ctx), model, map[string]interface{}{
		"booking_status": model.BookingStatus,
		"version":        model.Version,
		"updated_at":     model.UpdatedAt,
	})
}

// Delete removes a booking together with its service requests.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&ServiceRequestModel{}).Error; err != nil {
			return translateError(err, "delete booking service requests")
		}
		result := tx.Where("id = ?", id).Delete(&BookingModel{})
		if result.Error != nil {
			return translateError(result.Error, "delete booking")
		}
		if result.RowsAffected == 0 {
			return apperror.NewNotFoundError("Booking", id.String())
		}
		return nil
	})
}

// lockRoom takes a row lock on the room so concurrent bookings for it serialize.
func lockRoom(tx *gorm.DB, roomID uuid.UUID) error {
	var room RoomModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", roomID).
		First(&room).Error
	return notFound(err, "Room", roomID.String(), "lock room")
}

func ensureRoomFree(tx *gorm.DB, roomID, bookingID uuid.UUID, stay bookingDomain.Stay) error {
	var conflicts int64
	if err := overlapping(tx, stay).
		Where("room_id = ? AND id <> ?", roomID, bookingID).
		Count(&conflicts).Error; err != nil {
		return translateError(err, "check room availability")
	}
	if conflicts > 0 {
		return bookingDomain.ErrRoomUnavailable
	}
	return nil
}

// overlapping scopes a query to active bookings whose half-open stay intersects stay.
func overlapping(db *gorm.DB, stay bookingDomain.Stay) *gorm.DB {
	active := make([]string, 0, 2)
	for _, s := range bookingDomain.ActiveStatuses() {
		active = append(active, string(s))
	}
	return db.Model(&BookingModel{}).
		Where("booking_status IN ?", active).
		Where("checked_in_date < ? AND checked_out_date > ?", stay.CheckOut, stay.CheckIn)
}

func updateVersioned(tx *gorm.DB, model *BookingModel, columns map[string]interface{}) error {
	// The aggregate already incremented its version; match the one it was read at.
	expectedVersion := model.Version - 1
	result := tx.Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(columns)
	if result.Error != nil {
		return translateError(result.Error, "update booking")
	}
	if result.RowsAffected == 0 {
		return apperror.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	guest := bk.Guest()
	return &BookingModel{
		ID:               bk.ID(),
		FirstName:        guest.FirstName,
		LastName:         guest.LastName,
		Email:            guest.Email,
		PhoneNumber:      guest.PhoneNumber,
		SpecialRequests:  bk.SpecialRequests(),
		CheckedInDate:    bk.Stay().CheckIn,
		CheckedOutDate:   bk.Stay().CheckOut,
		AdultCapacity:    bk.AdultCapacity(),
		ChildrenCapacity: bk.ChildrenCapacity(),
		RoomID:           bk.RoomID(),
		BookingStatus:    string(bk.Status()),
		UserID:           bk.UserID(),
		TotalAmountCents: bk.TotalAmountCents(),
		Version:          bk.Version(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.BookingStatus)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", m.ID, err)
	}

	roomNumber := 0
	if m.Room != nil {
		roomNumber = m.Room.RoomNumber
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		bookingDomain.Guest{
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Email:       m.Email,
			PhoneNumber: m.PhoneNumber,
		},
		m.SpecialRequests,
		stayOf(m),
		m.AdultCapacity,
		m.ChildrenCapacity,
		m.RoomID,
		roomNumber,
		status,
		m.UserID,
		m.TotalAmountCents,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term literally anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func stayOf(m *BookingModel) bookingDomain.Stay {
	return bookingDomain.Stay{
		CheckIn:  bookingDomain.Date(m.CheckedInDate),
		CheckOut: bookingDomain.Date(m.CheckedOutDate),
	}
}
