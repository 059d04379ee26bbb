package study_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/studylog/svc/study"
)

func TestMongoStorage_InvalidID(t *testing.T) {
	t.Parallel()

	// Connect is lazy, so no server is needed for input validation.
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	s := study.NewMongoStorage(client.Database("studylog_test"))
	_, err = s.Get(context.Background(), "not-an-object-id")
	assert.ErrorIs(t, err, study.ErrInvalidID)
	assert.ErrorIs(t, s.Delete(context.Background(), "xyz"), study.ErrInvalidID)
}

func TestMongoStorage_Integration(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URL")
	if uri == "" {
		t.Skip("MONGODB_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	db := client.Database("studylog_test_" + time.Now().Format("20060102150405"))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	s := study.NewMongoStorage(db)
	require.NoError(t, s.EnsureIndexes(ctx))

	rec, err := s.Create(ctx, study.Record{StudyData: study.StudyData{Email: "a@b.co", Title: "Go", Time: 45}})
	require.NoError(t, err)
	assert.Len(t, rec.ID, 24)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.StudyData, got.StudyData)

	list, err := s.ListByEmail(ctx, "a@b.co", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, rec.ID))
	assert.ErrorIs(t, s.Delete(ctx, rec.ID), study.ErrNotFound)
	_, err = s.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, study.ErrNotFound)
}
