package bookingRepo

import (
	"context"
	"testing"
	"time"

	"carbooking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func bookingDoc(t *testing.T, b models.Booking) bson.D {
	t.Helper()
	raw, err := bson.Marshal(b)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	sample := models.Booking{
		ID:          "b1",
		Date:        "2024-05-01",
		StartTime:   "10:00",
		EndTime:     "12:00",
		StartMinute: 600,
		EndMinute:   720,
		CarModel:    "SedanX",
		PasskeyHash: "$2a$04$hash",
		CreatedAt:   time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC),
	}

	mt.Run("insert", func(mt *mtest.T) {
		repo := &mongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, repo.Insert(ctx, &sample))

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		assert.Error(mt, repo.Insert(ctx, &sample))
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := &mongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bookingDoc(mt.T, sample)))

		got, err := repo.GetByID(ctx, "b1")
		require.NoError(mt, err)
		assert.Equal(mt, "SedanX", got.CarModel)
		assert.Equal(mt, 600, got.StartMinute)
		assert.Equal(mt, sample.PasskeyHash, got.PasskeyHash)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := &mongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete maps zero deletions to not found", func(mt *mtest.T) {
		repo := &mongoBookingRepo{coll: mt.Coll}

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, repo.DeleteByID(ctx, "b1"))

		// A concurrent cancel already removed it.
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, repo.DeleteByID(ctx, "b1"), ErrNotFound)

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 91, Name: "ShutdownInProgress", Message: "shutting down"}))
		err := repo.DeleteByID(ctx, "b1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("list and filtered scan", func(mt *mtest.T) {
		repo := &mongoBookingRepo{coll: mt.Coll}
		other := sample
		other.ID, other.StartTime, other.StartMinute = "b2", "13:00", 780

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bookingDoc(mt.T, sample), bookingDoc(mt.T, other)))
		all, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, all, 2)
		assert.Equal(mt, "b2", all[1].ID)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		none, err := repo.GetByCarAndDate(ctx, "SedanY", "2024-05-01")
		require.NoError(mt, err)
		assert.NotNil(mt, none)
		assert.Empty(mt, none)

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad"}))
		_, err = repo.List(ctx)
		assert.Error(mt, err)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := &mongoBookingRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, repo.EnsureIndexes(ctx))

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Name: "IndexOptionsConflict", Message: "conflict"}))
		assert.Error(mt, repo.EnsureIndexes(ctx))
	})
}
