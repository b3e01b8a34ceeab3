package booking

import (
	"math"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// ErrTotalOutOfRange is returned when a stay's total does not fit in int64 cents.
var ErrTotalOutOfRange = apperror.NewValidationError("Total amount exceeds the supported range")

// PricingStrategy computes the amount charged for a stay.
type PricingStrategy interface {
	Total(nightlyPriceCents int64, stay Stay) (int64, error)
}

// NightlyPricingStrategy charges the room's nightly price for every night.
type NightlyPricingStrategy struct{}

// NewNightlyPricingStrategy creates a NightlyPricingStrategy.
func NewNightlyPricingStrategy() *NightlyPricingStrategy {
	return &NightlyPricingStrategy{}
}

// Total returns price times nights.
func (NightlyPricingStrategy) Total(nightlyPriceCents int64, stay Stay) (int64, error) {
	nights := int64(stay.Nights())
	if nightlyPriceCents < 0 || nightlyPriceCents > math.MaxInt64/nights {
		return 0, ErrTotalOutOfRange
	}
	return nightlyPriceCents * nights, nil
}
