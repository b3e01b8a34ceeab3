package booking

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on the booking topic.
const (
	EventCreated       = "hotel.booking.created"
	EventUpdated       = "hotel.booking.updated"
	EventStatusChanged = "hotel.booking.status_changed"
	EventDeleted       = "hotel.booking.deleted"
)

// DefaultEventTopic is the topic booking events go to unless configured otherwise.
const DefaultEventTopic = "hotel.booking.events"

// EventSource identifies this service in published events.
const EventSource = "service-hotel-booking"

// LifecycleEvent is the payload of every booking event. PreviousRoomID is set
// when an update moved the booking; PreviousStatus when its status changed.
type LifecycleEvent struct {
	BookingID        uuid.UUID  `json:"booking_id"`
	RoomID           uuid.UUID  `json:"room_id"`
	PreviousRoomID   *uuid.UUID `json:"previous_room_id,omitempty"`
	UserID           string     `json:"user_id,omitempty"`
	Status           string     `json:"status"`
	PreviousStatus   string     `json:"previous_status,omitempty"`
	CheckInDate      string     `json:"check_in_date"`
	CheckOutDate     string     `json:"check_out_date"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	OccurredAt       time.Time  `json:"occurred_at"`
}

// NewLifecycleEvent describes b as it is now.
func NewLifecycleEvent(b *Booking) LifecycleEvent {
	return LifecycleEvent{
		BookingID:        b.ID(),
		RoomID:           b.RoomID(),
		UserID:           b.UserID(),
		Status:           string(b.Status()),
		CheckInDate:      b.Stay().CheckIn.Format(DateLayout),
		CheckOutDate:     b.Stay().CheckOut.Format(DateLayout),
		TotalAmountCents: b.TotalAmountCents(),
		OccurredAt:       time.Now().UTC(),
	}
}
