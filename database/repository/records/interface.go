package recordsRepo

import (
	"context"
	"errors"

	"indastreet/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// RecordsRepository stores enforcement and audit records: contact and
// proximity violations, account restrictions and admin notifications.
type RecordsRepository interface {
	CreateContactViolation(ctx context.Context, v models.ContactViolation) error
	CountContactViolations(ctx context.Context, userID string) (int64, error)
	FlagViolationRestricted(ctx context.Context, violationID string) error
	ListUnreviewedViolations(ctx context.Context, limit int64) ([]models.ContactViolation, error)
	MarkViolationReviewed(ctx context.Context, violationID, adminID, action string) error

	CreateProximityViolation(ctx context.Context, v models.ProximityViolation) error

	RestrictAccount(ctx context.Context, userID, role, reason string) error
	LiftAccountRestriction(ctx context.Context, userID string) error
	IsAccountRestricted(ctx context.Context, userID string) (bool, error)

	CreateNotification(ctx context.Context, n models.AdminNotification) error
}

type mongoRecordRepo struct {
	violations    *mongo.Collection
	proximity     *mongo.Collection
	restrictions  *mongo.Collection
	notifications *mongo.Collection
}

// NewMongoRecordRepo returns a new RecordsRepository instance using MongoDB.
func NewMongoRecordRepo(db *mongo.Database) RecordsRepository {
	return &mongoRecordRepo{
		violations:    db.Collection("contact_violations"),
		proximity:     db.Collection("proximity_violations"),
		restrictions:  db.Collection("account_restrictions"),
		notifications: db.Collection("notifications"),
	}
}
