package bookingRepo

import (
	"context"
	"errors"
	"time"

	"indastreet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no booking matches the requested id.
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken is returned by Create when another active booking holds
	// the same slot key.
	ErrSlotTaken = errors.New("the requested time slot is already reserved")
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking. It fails with ErrSlotTaken when an
	// active booking already holds b.SlotKey.
	Create(ctx context.Context, b *models.Booking) error
	// GetByID retrieves a booking by its id.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateStatus sets fields on the booking only if its stored status still
	// equals current. It reports whether a document matched. Moving to a
	// terminal status releases the slot key.
	UpdateStatus(ctx context.Context, id string, current models.BookingStatus, set bson.M) (bool, error)
	// HasRecentActive reports whether the customer already holds an active
	// booking with the provider created at or after since.
	HasRecentActive(ctx context.Context, customerID, providerID string, since time.Time) (bool, error)
	// IsSlotReserved reports whether an active booking holds the provider's slot.
	IsSlotReserved(ctx context.Context, providerID, date, clock string) (bool, error)
	// ListByProvider returns the provider's bookings, newest first.
	ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.Booking, error)
	// FindOverdue returns bookings in status whose deadlineField is before now.
	FindOverdue(ctx context.Context, status models.BookingStatus, deadlineField string, now time.Time) ([]models.Booking, error)
	// FindCommissionPending returns completed bookings still waiting for
	// their commission record.
	FindCommissionPending(ctx context.Context, limit int64) ([]models.Booking, error)
	// ClearCommissionPending unsets the commission pending flag.
	ClearCommissionPending(ctx context.Context, id string) error
	// FirstCompletedAt returns when the pair's earliest completed booking
	// finished, or nil when there is none.
	FirstCompletedAt(ctx context.Context, customerID, providerID string) (*time.Time, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by the "bookings" collection.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}
