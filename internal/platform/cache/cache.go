// Package cache provides the read-through cache used by the application
// services. Every namespace carries its own TTL.
package cache

import (
	"context"
	"time"
)

// Namespaces and their TTLs.
const (
	AvailableRooms = "availableRooms"
	UserBookings   = "userBookings"
	Rooms          = "rooms"
	Bookings       = "bookings"
	RoomAmenities  = "roomAmenities"
	RoomServices   = "roomServices"
	AmenityTypes   = "amenityTypes"
	ServiceTypes   = "serviceTypes"
)

// DefaultTTLs holds the per-namespace expiry used when none is configured.
var DefaultTTLs = map[string]time.Duration{
	AvailableRooms: 5 * time.Minute,
	UserBookings:   5 * time.Minute,
	Rooms:          30 * time.Minute,
	Bookings:       30 * time.Minute,
	RoomAmenities:  30 * time.Minute,
	RoomServices:   30 * time.Minute,
	AmenityTypes:   2 * time.Hour,
	ServiceTypes:   2 * time.Hour,
}

// Cache is a JSON key/value store partitioned into namespaces.
type Cache interface {
	// Get decodes the cached value into out and reports whether it was present.
	Get(ctx context.Context, namespace, key string, out any) (bool, error)

	// Set stores value under namespace/key with the namespace's TTL.
	Set(ctx context.Context, namespace, key string, value any) error

	// Evict removes a single entry.
	Evict(ctx context.Context, namespace, key string) error

	// EvictNamespace removes every entry of a namespace.
	EvictNamespace(ctx context.Context, namespace string) error

	Close() error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, string, any) error         { return nil }
func (NopCache) Evict(context.Context, string, string) error            { return nil }
func (NopCache) EvictNamespace(context.Context, string) error           { return nil }
func (NopCache) Close() error                                           { return nil }
