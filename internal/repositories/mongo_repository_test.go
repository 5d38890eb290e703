package repositories_test

import (
	"context"
	"testing"
	"time"

	"ratlist/internal/models"
	"ratlist/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	usersNS = "ratlist.users"
	tasksNS = "ratlist.tasks"
)

func userDoc(id primitive.ObjectID, username, first, last string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "id", Value: "g-1"},
		{Key: "username", Value: username},
		{Key: "firstName", Value: first},
		{Key: "lastName", Value: last},
		{Key: "createdAt", Value: time.Now().UTC()},
	}
}

func taskDoc(id primitive.ObjectID, username, text string, status models.TaskStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "task", Value: text},
		{Key: "completion", Value: string(status)},
		{Key: "createdAt", Value: time.Now().UTC()},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create rejects duplicate username", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: ratlist.users index: username_1",
		}))

		err := repo.Create(ctx, &models.User{Username: "ann@example.com"})
		assert.ErrorIs(mt, err, repositories.ErrDuplicateUsername)
	})

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Username: "ann@example.com"}
		require.NoError(mt, repo.Create(ctx, user))
		assert.Len(mt, user.ID, 24)
	})

	mt.Run("get by username not found", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := repo.GetByUsername(ctx, "nobody@example.com")
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})

	mt.Run("find or create inserts unseen user", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: oid}}}},
		))

		user, created, err := repo.FindOrCreate(ctx, &models.User{ProviderID: "g-1", Username: "ann@example.com", FirstName: "Ann"})
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.Equal(mt, oid.Hex(), user.ID)
		assert.Equal(mt, "Ann", user.FirstName)
	})

	mt.Run("find or create returns stored user unmodified", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, userDoc(oid, "ann@example.com", "Ann", "Lee")),
		)

		user, created, err := repo.FindOrCreate(ctx, &models.User{Username: "ann@example.com", FirstName: "Annie", LastName: "Li"})
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, oid.Hex(), user.ID)
		assert.Equal(mt, "Ann", user.FirstName)
		assert.Equal(mt, "Lee", user.LastName)
	})

	mt.Run("find or create recovers from concurrent insert", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key"}),
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, userDoc(oid, "ann@example.com", "Ann", "Lee")),
		)

		user, created, err := repo.FindOrCreate(ctx, &models.User{Username: "ann@example.com"})
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, oid.Hex(), user.ID)
	})
}

func TestMongoTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list decodes documents", func(mt *mtest.T) {
		repo := repositories.NewMongoTaskRepository(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tasksNS, mtest.FirstBatch,
			taskDoc(first, "ann@example.com", "write report", models.StatusIncomplete),
			taskDoc(second, "ann@example.com", "buy milk", models.StatusFinished),
		))

		tasks, err := repo.List(ctx, models.TaskFilter{Username: "ann@example.com"})
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, first.Hex(), tasks[0].ID)
		assert.Equal(mt, "write report", tasks[0].Text)
		assert.Equal(mt, models.StatusFinished, tasks[1].Completion)
	})

	mt.Run("create defaults to incomplete", func(mt *mtest.T) {
		repo := repositories.NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		task := &models.Task{Username: "ann@example.com", Text: "buy milk"}
		require.NoError(mt, repo.Create(ctx, task))
		assert.Len(mt, task.ID, 24)
		assert.Equal(mt, models.StatusIncomplete, task.Completion)
	})

	mt.Run("delete reports missing task", func(mt *mtest.T) {
		repo := repositories.NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})

	mt.Run("delete rejects malformed id", func(mt *mtest.T) {
		repo := repositories.NewMongoTaskRepository(mt.DB)
		assert.ErrorIs(mt, repo.Delete(ctx, "not-an-object-id"), repositories.ErrNotFound)
	})

	mt.Run("toggle returns updated document", func(mt *mtest.T) {
		repo := repositories.NewMongoTaskRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: taskDoc(oid, "ann@example.com", "buy milk", models.StatusFinished)},
		))

		task, err := repo.ToggleCompletion(ctx, oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), task.ID)
		assert.Equal(mt, models.StatusFinished, task.Completion)
	})

	mt.Run("toggle rejects malformed id", func(mt *mtest.T) {
		repo := repositories.NewMongoTaskRepository(mt.DB)
		_, err := repo.ToggleCompletion(ctx, "zzz")
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})
}
