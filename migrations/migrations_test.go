package migrations_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	data, err := fs.ReadFile(migrations.FS, "00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "CREATE UNIQUE INDEX IF NOT EXISTS users_email_key")
}
