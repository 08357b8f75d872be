package booking

import (
	"context"
	"time"

	"indastreet/models"
)

// BookingService manages bookings from creation to completion.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error)

	Accept(ctx context.Context, id, providerID string) (*models.Booking, error)
	Decline(ctx context.Context, id, providerID, reason string) (*models.Booking, error)
	Confirm(ctx context.Context, id, customerID string) (*models.Booking, error)
	Complete(ctx context.Context, id, providerID string) (*models.Booking, error)
	Expire(ctx context.Context, id, reason string) (*models.Booking, error)

	ExpireIfOverdue(ctx context.Context, id string) error
	ExpireOverdue(ctx context.Context) (int, error)
	ReconcileCommissions(ctx context.Context) (int, error)

	CommissionSummary(ctx context.Context, from, to time.Time) (*models.CommissionSummary, error)
}

// ProviderReader loads provider availability.
type ProviderReader interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
}

// ExpiryScheduler arranges for a booking's deadline to be checked at a given time.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error
}
