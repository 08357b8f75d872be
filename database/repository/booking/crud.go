package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"indastreet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

func (r *mongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "slotKey") {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &b, nil
}

// UpdateStatus is a compare-and-swap on the status field.
func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, id string, current models.BookingStatus, set bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	filter := bson.M{"id": id, "status": current}
	update := bson.M{"$set": set}
	if target, ok := set["status"].(models.BookingStatus); ok && target.IsTerminal() {
		update["$unset"] = bson.M{"slotKey": ""}
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoBookingRepo) HasRecentActive(ctx context.Context, customerID, providerID string, since time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	filter := bson.M{
		"customerId": customerID,
		"providerId": providerID,
		"status":     bson.M{"$in": models.ActiveBookingStatuses},
		"createdAt":  bson.M{"$gte": since},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate bookings: %w", err)
	}
	return n > 0, nil
}

func (r *mongoBookingRepo) IsSlotReserved(ctx context.Context, providerID, date, clock string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	filter := bson.M{
		"providerId":    providerID,
		"bookingType":   models.BookingScheduled,
		"scheduledDate": date,
		"scheduledTime": clock,
		"status":        bson.M{"$in": models.ActiveBookingStatuses},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slot reservation: %w", err)
	}
	return n > 0, nil
}
