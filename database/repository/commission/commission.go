package commissionRepo

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

// ErrAlreadyRecorded is returned when the booking already has a commission record.
var ErrAlreadyRecorded = errors.New("commission already recorded for booking")

// CommissionRepository stores the platform's cut of completed bookings.
type CommissionRepository interface {
	Record(ctx context.Context, rec models.CommissionRecord) error
	Summarize(ctx context.Context, from, to time.Time) (*models.CommissionSummary, error)
}

type mongoCommissionRepo struct {
	coll *mongo.Collection
}

// NewMongoCommissionRepo returns a CommissionRepository backed by "commission_records".
func NewMongoCommissionRepo(db *mongo.Database) CommissionRepository {
	return &mongoCommissionRepo{coll: db.Collection("commission_records")}
}

// Record inserts rec; the unique bookingId index turns a second insert into ErrAlreadyRecorded.
func (r *mongoCommissionRepo) Record(ctx context.Context, rec models.CommissionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyRecorded
		}
		return fmt.Errorf("failed to record commission for booking %s: %w", rec.BookingID, err)
	}
	return nil
}

// Summarize totals the records completed in [from, to).
func (r *mongoCommissionRepo) Summarize(ctx context.Context, from, to time.Time) (*models.CommissionSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"completedAt": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id":                  nil,
			"totalBookings":        bson.M{"$sum": 1},
			"totalRevenue":         bson.M{"$sum": "$totalPrice"},
			"totalAdminCommission": bson.M{"$sum": "$adminCommission"},
			"totalProviderPayout":  bson.M{"$sum": "$providerPayout"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate commission: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalBookings        int     `bson:"totalBookings"`
		TotalRevenue         float64 `bson:"totalRevenue"`
		TotalAdminCommission float64 `bson:"totalAdminCommission"`
		TotalProviderPayout  float64 `bson:"totalProviderPayout"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode commission summary: %w", err)
	}
	summary := &models.CommissionSummary{}
	if len(rows) > 0 {
		summary.TotalBookings = rows[0].TotalBookings
		summary.TotalRevenue = rows[0].TotalRevenue
		summary.TotalAdminCommission = rows[0].TotalAdminCommission
		summary.TotalProviderPayout = rows[0].TotalProviderPayout
	}
	return summary, nil
}

// EnsureIndexes creates the unique bookingId index.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "completedAt", Value: -1}}},
	}
	if _, err := db.Collection("commission_records").Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create commission indexes: %w", err)
	}
	return nil
}
