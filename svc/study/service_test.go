package study_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/validator"
	"github.com/dmitrymomot/studylog/svc/study"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   study.StudyData
		fields []string
	}{
		{"valid", study.StudyData{Email: "a@b.co", Title: "Go", Time: 0}, nil},
		{"bad email", study.StudyData{Email: "nope", Title: "Go", Time: 1}, []string{"email"}},
		{"missing title", study.StudyData{Email: "a@b.co", Title: "", Time: 1}, []string{"title"}},
		{"negative time", study.StudyData{Email: "a@b.co", Title: "Go", Time: -1}, []string{"time"}},
		{"nan time", study.StudyData{Email: "a@b.co", Title: "Go", Time: math.NaN()}, []string{"time"}},
		{"everything", study.StudyData{Time: -5}, []string{"email", "title", "time"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := study.Validate(tt.data)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.fields, validator.ExtractValidationErrors(err).Fields())
		})
	}
}

func TestService_RecordAndList(t *testing.T) {
	t.Parallel()

	svc := study.NewService(study.NewMemoryStorage())
	ctx := context.Background()

	first, err := svc.Record(ctx, study.StudyData{ID: "ignored", Email: " A@B.co ", Title: " Go ", Time: 25})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, "ignored", first.ID)
	assert.Equal(t, "a@b.co", first.Email)
	assert.Equal(t, "Go", first.Title)

	_, err = svc.Record(ctx, study.StudyData{Email: "other@b.co", Title: "Rust", Time: 10})
	require.NoError(t, err)

	_, err = svc.Record(ctx, study.StudyData{Email: "a@b.co", Title: "", Time: 10})
	assert.True(t, validator.IsValidationError(err))

	list, err := svc.List(ctx, "a@b.co")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0])
}

func TestService_ListLimit(t *testing.T) {
	t.Parallel()

	svc := study.NewService(study.NewMemoryStorage(), study.WithListLimit(2))
	ctx := context.Background()
	for range 3 {
		_, err := svc.Record(ctx, study.StudyData{Email: "a@b.co", Title: "Go", Time: 1})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestService_Ownership(t *testing.T) {
	t.Parallel()

	svc := study.NewService(study.NewMemoryStorage())
	ctx := context.Background()
	rec, err := svc.Record(ctx, study.StudyData{Email: "a@b.co", Title: "Go", Time: 1})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "eve@b.co", rec.ID)
	assert.ErrorIs(t, err, study.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "eve@b.co", rec.ID), study.ErrNotFound)

	got, err := svc.Get(ctx, "A@b.co", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, svc.Delete(ctx, "a@b.co", rec.ID))
	_, err = svc.Get(ctx, "a@b.co", rec.ID)
	assert.ErrorIs(t, err, study.ErrNotFound)
}
