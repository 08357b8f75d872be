// Package availability decides whether a provider may take a booking.
package availability

import (
	"errors"

	"indastreet/models"
)

var (
	ErrProviderRestricted   = errors.New("provider is restricted and cannot accept bookings")
	ErrImmediateUnavailable = errors.New("provider is not available for immediate bookings")
	ErrUnknownState         = errors.New("unknown provider state or booking type")
)

// Validate returns nil when a provider in state may accept bookingType,
// otherwise the reason it may not. RESTRICTED is checked first and overrides
// everything else.
func Validate(state models.ProviderStatus, bookingType models.BookingType) error {
	if state == models.ProviderRestricted {
		return ErrProviderRestricted
	}
	switch state {
	case models.ProviderAvailable, models.ProviderBusy, models.ProviderClosed:
	default:
		return ErrUnknownState
	}

	switch bookingType {
	case models.BookingImmediate:
		if state != models.ProviderAvailable {
			return ErrImmediateUnavailable
		}
		return nil
	case models.BookingScheduled:
		return nil
	default:
		return ErrUnknownState
	}
}

// CanAccept is the boolean form of Validate.
func CanAccept(state models.ProviderStatus, bookingType models.BookingType) bool {
	return Validate(state, bookingType) == nil
}

// IsSettableByProvider reports whether a provider may switch to state
// themselves. RESTRICTED is reserved for enforcement and administrators.
func IsSettableByProvider(state models.ProviderStatus) bool {
	switch state {
	case models.ProviderAvailable, models.ProviderBusy, models.ProviderClosed:
		return true
	}
	return false
}
