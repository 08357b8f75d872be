package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"indastreet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo(db *mongo.Database) ProviderRepository {
	return &MongoProviderRepo{coll: db.Collection("providers")}
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &provider, nil
}

func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	now := time.Now()
	provider.CreatedAt = now
	provider.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) SetStatus(ctx context.Context, id string, status models.ProviderStatus, busyUntil *time.Time) error {
	filter := bson.M{"id": id, "status": bson.M{"$ne": models.ProviderRestricted}}
	update := bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	}
	if busyUntil != nil {
		update["$set"].(bson.M)["busyUntil"] = *busyUntil
	} else {
		update["$unset"] = bson.M{"busyUntil": ""}
	}
	return r.updateOne(ctx, id, filter, update)
}

func (r *MongoProviderRepo) Restrict(ctx context.Context, id, reason string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":            models.ProviderRestricted,
			"restrictionReason": reason,
			"restrictedAt":      now,
			"updatedAt":         now,
		},
		"$unset": bson.M{"busyUntil": ""},
	}
	return r.updateOne(ctx, id, bson.M{"id": id}, update)
}

func (r *MongoProviderRepo) LiftRestriction(ctx context.Context, id string) error {
	filter := bson.M{"id": id, "status": models.ProviderRestricted}
	update := bson.M{
		"$set":   bson.M{"status": models.ProviderClosed, "updatedAt": time.Now()},
		"$unset": bson.M{"restrictionReason": "", "restrictedAt": ""},
	}
	return r.updateOne(ctx, id, filter, update)
}

func (r *MongoProviderRepo) updateOne(ctx context.Context, id string, filter, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update provider with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
