package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"indastreet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBookingRepo) ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) FindOverdue(ctx context.Context, status models.BookingStatus, deadlineField string, now time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{
		"status":      status,
		deadlineField: bson.M{"$lt": now},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(500))
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue %s bookings: %w", status, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) FindCommissionPending(ctx context.Context, limit int64) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{"status": models.StatusCompleted, "commissionPending": true}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings with pending commission: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) ClearCommissionPending(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$unset": bson.M{"commissionPending": ""}})
	if err != nil {
		return fmt.Errorf("failed to clear pending commission on %s: %w", id, err)
	}
	return nil
}

func (r *mongoBookingRepo) FirstCompletedAt(ctx context.Context, customerID, providerID string) (*time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	filter := bson.M{
		"customerId": customerID,
		"providerId": providerID,
		"status":     models.StatusCompleted,
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "completedAt", Value: 1}}).
		SetProjection(bson.M{"completedAt": 1})

	var doc struct {
		CompletedAt *time.Time `bson:"completedAt"`
	}
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch first completed booking: %w", err)
	}
	return doc.CompletedAt, nil
}
