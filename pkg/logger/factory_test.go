package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.New(logger.WithFormat("xml"))
		})
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "test", entry["svc"])
	})

	t.Run("extracts from context", func(t *testing.T) {
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(key{}).(string); ok {
					return slog.String("rid", v), true
				}
				return slog.Attr{}, false
			}),
		)
		log.InfoContext(context.WithValue(context.Background(), key{}, "abc"), "msg")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "abc", entry["rid"])
	})

	t.Run("level filtering", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Run("development is text and debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("development", "studylog"), logger.WithOutput(buf))
		log.Debug("visible")
		out := buf.String()
		assert.Contains(t, out, "msg=visible")
		assert.Contains(t, out, "service=studylog")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production is json and info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("prod", "studylog"), logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("shown")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "production", entry["env"])
	})
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
