package chatRepo

import (
	"context"
	"fmt"
	"time"

	"indastreet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository stores encrypted chat messages.
type ChatRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListSince(ctx context.Context, roomID string, since time.Time, limit int64) ([]models.ChatMessage, error)
	// IsParticipant reports whether userID sent or received a message in the room.
	IsParticipant(ctx context.Context, roomID, userID string) (bool, error)
}

type mongoChatRepo struct {
	coll *mongo.Collection
}

// NewMongoChatRepo returns a ChatRepository backed by "chat_messages".
func NewMongoChatRepo(db *mongo.Database) ChatRepository {
	return &mongoChatRepo{coll: db.Collection("chat_messages")}
}

func (r *mongoChatRepo) Create(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to store chat message: %w", err)
	}
	return nil
}

// ListSince returns the room's messages created after since, oldest first.
func (r *mongoChatRepo) ListSince(ctx context.Context, roomID string, since time.Time, limit int64) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{"roomId": roomID, "createdAt": bson.M{"$gt": since}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for room %s: %w", roomID, err)
	}
	defer cursor.Close(ctx)

	messages := []models.ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (r *mongoChatRepo) IsParticipant(ctx context.Context, roomID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{
		"roomId": roomID,
		"$or":    bson.A{bson.M{"senderId": userID}, bson.M{"recipientId": userID}},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check membership of room %s: %w", roomID, err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the room timeline index.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := db.Collection("chat_messages").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create chat indexes: %w", err)
	}
	return nil
}
