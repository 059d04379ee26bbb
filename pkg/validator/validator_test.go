package validator_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("title", "Go"),
			validator.MinUTF16Length("password", "abcdef", 6),
			validator.MaxChars("title", "Go", 10),
			validator.Matches("conf", "x", "x"),
			validator.ValidEmail("email", "a@example.com"),
			validator.MinNum("time", 1.5, 0),
			validator.MaxNum("time", 3, 5),
		)
		assert.NoError(t, err)
	})

	t.Run("collects failures in order", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("title", "  "),
			validator.ValidEmail("email", "nope"),
			validator.MinNum("time", -1, 0),
		)
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		ve := validator.ExtractValidationErrors(fmt.Errorf("wrapped: %w", err))
		require.Len(t, ve, 3)
		assert.Equal(t, []string{"title", "email", "time"}, ve.Fields())
		assert.True(t, ve.Has("email"))
		assert.False(t, ve.Has("password"))
		assert.Equal(t, []string{"must be a valid email address"}, ve.Get("email"))
		assert.Equal(t, "validation.required", ve[0].TranslationKey)
		assert.Contains(t, err.Error(), "title: field is required")
	})

	t.Run("extract from unrelated error", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, validator.ExtractValidationErrors(fmt.Errorf("x")))
		assert.False(t, validator.IsValidationError(nil))
	})
}

func TestMaxChars_CountsRunes(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.MaxChars("p", "パスワード", 5)))
	assert.Error(t, validator.Apply(validator.MaxChars("p", "パスワード", 4)))
}

func TestMinUTF16Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"ascii", "abcdef", true},
		{"ascii short", "abcde", false},
		{"bmp counts one each", "ぱすわー", false},
		{"astral counts two each", "😀😀😀", true},
		{"astral short", "😀😀", false},
		{"mixed", "ab😀😀", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(validator.MinUTF16Length("p", tt.value, 6))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"user@example.com", "first.last+tag@sub.example.org"}
	invalid := []string{"", "user", "user@", "@example.com", "user@localhost", "user@example..com", "Name <user@example.com>"}

	for _, v := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", v)), v)
	}
	for _, v := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", v)), v)
	}
}
