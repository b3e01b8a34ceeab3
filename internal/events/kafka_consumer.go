package events

import (
	"context"
	"strings"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/platform/kafka"
)

// BookingInvalidator drops cached state derived from a booking.
type BookingInvalidator interface {
	InvalidateBooking(ctx context.Context, id uuid.UUID)
}

// CacheInvalidationConsumer listens to booking lifecycle events, including
// those published by other replicas, and evicts the affected cache entries.
type CacheInvalidationConsumer struct {
	consumer    *kafka.Consumer
	invalidator BookingInvalidator
	logger      *zap.Logger
}

// NewCacheInvalidationConsumer creates a new CacheInvalidationConsumer. groupID
// should be unique per replica so every replica sees every event.
func NewCacheInvalidationConsumer(
	brokers []string,
	groupID string,
	topic string,
	invalidator BookingInvalidator,
	logger *zap.Logger,
) *CacheInvalidationConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, topic, logger)
	return &CacheInvalidationConsumer{
		consumer:    consumer,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *CacheInvalidationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CacheInvalidationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CacheInvalidationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if !strings.HasPrefix(cloudEvent.Type, "hotel.booking.") {
		c.logger.Debug("ignoring unhandled event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt bookingDomain.LifecycleEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.BookingID == uuid.Nil {
		c.logger.Error("failed to parse booking event data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.invalidator.InvalidateBooking(ctx, evt.BookingID)
	c.logger.Debug("evicted cache for booking event",
		zap.String("type", cloudEvent.Type),
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}
