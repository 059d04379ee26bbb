package toast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/studylog/pkg/toast"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		toast    toast.Toast
		severity toast.Severity
	}{
		{toast.Error("e"), toast.SeverityError},
		{toast.Success("s"), toast.SeveritySuccess},
		{toast.Warning("w"), toast.SeverityWarning},
		{toast.Info("i"), toast.SeverityInfo},
	} {
		assert.Equal(t, tc.severity, tc.toast.Severity)
		assert.Equal(t, 2*time.Second, tc.toast.Duration)
		assert.EqualValues(t, 2000, tc.toast.DurationMillis())
		assert.True(t, tc.toast.Dismissible)
		assert.Equal(t, toast.PositionTop, tc.toast.Position)
		assert.False(t, tc.toast.IsZero())
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	tt := toast.Error("failed",
		toast.WithDescription("boom"),
		toast.WithDuration(5*time.Second),
		toast.WithPosition(toast.PositionBottom),
	)
	assert.Equal(t, "boom", tt.Description)
	assert.Equal(t, 5*time.Second, tt.Duration)
	assert.Equal(t, toast.PositionBottom, tt.Position)

	kept := toast.Info("x", toast.WithDuration(0))
	assert.Equal(t, toast.DefaultDuration, kept.Duration)

	assert.True(t, toast.Toast{}.IsZero())
}
