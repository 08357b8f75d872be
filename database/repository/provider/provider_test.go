package providerRepo

import (
	"context"
	"testing"
	"time"

	"indastreet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoProviderRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoProviderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.providers", mtest.FirstBatch, bson.D{
			{Key: "id", Value: "p1"},
			{Key: "status", Value: "BUSY"},
		}))

		p, err := repo.GetByID(context.Background(), "p1")
		require.NoError(mt, err)
		assert.Equal(mt, models.ProviderBusy, p.Status)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := NewMongoProviderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.providers", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("set status", func(mt *mtest.T) {
		repo := NewMongoProviderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		until := time.Now().Add(time.Hour)
		assert.NoError(mt, repo.SetStatus(context.Background(), "p1", models.ProviderBusy, &until))
	})

	mt.Run("set status on restricted provider matches nothing", func(mt *mtest.T) {
		repo := NewMongoProviderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.SetStatus(context.Background(), "p1", models.ProviderAvailable, nil)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("restrict", func(mt *mtest.T) {
		repo := NewMongoProviderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		assert.NoError(mt, repo.Restrict(context.Background(), "p1", "contact sharing"))
	})
}
