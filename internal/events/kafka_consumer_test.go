package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/platform/kafka"
)

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) InvalidateBooking(ctx context.Context, id uuid.UUID) {
	m.Called(ctx, id)
}

func newTestConsumer(inv BookingInvalidator) *CacheInvalidationConsumer {
	return &CacheInvalidationConsumer{invalidator: inv, logger: zap.NewNop()}
}

func message(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	evt, err := kafka.NewCloudEvent(bookingDomain.EventSource, eventType, "subject", data)
	require.NoError(t, err)
	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestHandleMessage_InvalidatesBooking(t *testing.T) {
	inv := new(mockInvalidator)
	c := newTestConsumer(inv)
	id := uuid.New()
	inv.On("InvalidateBooking", mock.Anything, id).Return()

	for _, eventType := range []string{bookingDomain.EventCreated, bookingDomain.EventStatusChanged, bookingDomain.EventDeleted} {
		err := c.handleMessage(context.Background(), message(t, eventType, bookingDomain.LifecycleEvent{BookingID: id}))
		require.NoError(t, err)
	}
	inv.AssertNumberOfCalls(t, "InvalidateBooking", 3)
}

func TestHandleMessage_SkipsUnusableMessages(t *testing.T) {
	inv := new(mockInvalidator)
	c := newTestConsumer(inv)
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, message(t, "hotel.payment.settled", map[string]string{"id": "x"})))
	assert.NoError(t, c.handleMessage(ctx, message(t, bookingDomain.EventUpdated, map[string]string{"booking_id": "nope"})))
	assert.NoError(t, c.handleMessage(ctx, message(t, bookingDomain.EventUpdated, map[string]string{})))

	inv.AssertNotCalled(t, "InvalidateBooking", mock.Anything, mock.Anything)
}
