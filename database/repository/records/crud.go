package recordsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"indastreet/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoRecordRepo) CreateContactViolation(ctx context.Context, v models.ContactViolation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.violations.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("failed to store contact violation: %w", err)
	}
	return nil
}

func (r *mongoRecordRepo) CountContactViolations(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	n, err := r.violations.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count violations for %s: %w", userID, err)
	}
	return n, nil
}

func (r *mongoRecordRepo) FlagViolationRestricted(ctx context.Context, violationID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.violations.UpdateOne(ctx, bson.M{"violationId": violationID}, bson.M{"$set": bson.M{"accountRestricted": true}})
	if err != nil {
		return fmt.Errorf("failed to flag violation %s: %w", violationID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUnreviewedViolations returns violations awaiting review, newest first.
func (r *mongoRecordRepo) ListUnreviewedViolations(ctx context.Context, limit int64) ([]models.ContactViolation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.violations.Find(ctx, bson.M{"adminReviewed": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	defer cursor.Close(ctx)

	violations := []models.ContactViolation{}
	if err := cursor.All(ctx, &violations); err != nil {
		return nil, fmt.Errorf("failed to decode violations: %w", err)
	}
	return violations, nil
}

func (r *mongoRecordRepo) MarkViolationReviewed(ctx context.Context, violationID, adminID, action string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	update := bson.M{"$set": bson.M{
		"adminReviewed": true,
		"adminAction":   action,
		"reviewedBy":    adminID,
		"reviewedAt":    time.Now(),
	}}
	res, err := r.violations.UpdateOne(ctx, bson.M{"violationId": violationID}, update)
	if err != nil {
		return fmt.Errorf("failed to review violation %s: %w", violationID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRecordRepo) CreateProximityViolation(ctx context.Context, v models.ProximityViolation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.proximity.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("failed to store proximity violation: %w", err)
	}
	return nil
}

// RestrictAccount upserts the restriction for userID.
func (r *mongoRecordRepo) RestrictAccount(ctx context.Context, userID, role, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	update := bson.M{"$set": bson.M{
		"userId":       userID,
		"role":         role,
		"reason":       reason,
		"restrictedAt": time.Now(),
	}}
	_, err := r.restrictions.UpdateOne(ctx, bson.M{"userId": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to restrict account %s: %w", userID, err)
	}
	return nil
}

func (r *mongoRecordRepo) LiftAccountRestriction(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.restrictions.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to lift restriction for %s: %w", userID, err)
	}
	return nil
}

func (r *mongoRecordRepo) IsAccountRestricted(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := r.restrictions.FindOne(ctx, bson.M{"userId": userID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check restriction for %s: %w", userID, err)
	}
	return true, nil
}

// CreateNotification stores an admin dashboard notification.
func (r *mongoRecordRepo) CreateNotification(ctx context.Context, n models.AdminNotification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}
