package session_test

import (
	"context"
	"testing"
	"time"

	"ratlist/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("load returns stored identity", func(mt *mtest.T) {
		store := session.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "ratlist.sessions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "sid-1"},
			{Key: "identity", Value: bson.D{
				{Key: "id", Value: "u1"},
				{Key: "username", Value: "ann@example.com"},
				{Key: "name", Value: "Ann Lee"},
			}},
			{Key: "expiresAt", Value: time.Now().Add(time.Hour).UTC()},
		}))

		identity, err := store.Load(ctx, "sid-1")
		require.NoError(mt, err)
		assert.Equal(mt, session.Identity{ID: "u1", Username: "ann@example.com", Name: "Ann Lee"}, identity)
	})

	mt.Run("load misses expired or unknown session", func(mt *mtest.T) {
		store := session.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "ratlist.sessions", mtest.FirstBatch))

		_, err := store.Load(ctx, "sid-2")
		assert.ErrorIs(mt, err, session.ErrSessionNotFound)
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		store := session.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := store.Save(ctx, "sid-3", session.Identity{Username: "ann@example.com"}, time.Now().Add(time.Hour))
		assert.NoError(mt, err)
	})
}
