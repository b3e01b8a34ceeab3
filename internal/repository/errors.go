package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/database"
)

// Constraint names declared in the migrations.
const (
	constraintRoomNumber      = "rooms_room_number_key"
	constraintNoOverlap       = "bookings_no_overlap"
	constraintRoomAmenity     = "room_amenities_room_type_key"
	constraintAmenityTypeName = "amenity_types_name_key"
	constraintServiceTypeName = "service_types_name_key"
)

// translateError maps driver errors to domain errors. action describes the
// failed operation for wrapped errors.
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	code, constraint, ok := database.ConstraintViolation(err)
	if ok {
		switch code {
		case database.CodeExclusionViolation:
			if constraint == constraintNoOverlap {
				return bookingDomain.ErrRoomUnavailable
			}
		case database.CodeUniqueViolation:
			switch constraint {
			case constraintRoomNumber:
				return apperror.NewConflictError("Room number already exists.")
			case constraintRoomAmenity:
				return apperror.NewConflictError("Room already has this amenity")
			case constraintAmenityTypeName, constraintServiceTypeName:
				return apperror.NewConflictError("Name already exists.")
			}
			return apperror.NewConflictError("Resource already exists.")
		case database.CodeForeignKeyViolation:
			return apperror.NewConflictError("Resource is still in use.")
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// notFound converts gorm.ErrRecordNotFound into a NotFoundError for resource.
func notFound(err error, resource, id, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError(resource, id)
	}
	return translateError(err, action)
}
