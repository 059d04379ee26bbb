package study_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/svc/study"
)

func TestMemoryStorage(t *testing.T) {
	t.Parallel()

	s := study.NewMemoryStorage()
	ctx := context.Background()

	rec, err := s.Create(ctx, study.Record{StudyData: study.StudyData{Email: "a@b.co", Title: "Go", Time: 5}})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	list, err := s.ListByEmail(ctx, "nobody@b.co", 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Delete(ctx, rec.ID))
	assert.ErrorIs(t, s.Delete(ctx, rec.ID), study.ErrNotFound)
	_, err = s.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, study.ErrNotFound)
}
