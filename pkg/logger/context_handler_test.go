package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

func ridExtractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(ridKey{}).(string); ok {
		return slog.String("request_id", v), true
	}
	return slog.Attr{}, false
}

type ridKey struct{}

func TestNewContextHandler(t *testing.T) {
	t.Run("returns next without extractors", func(t *testing.T) {
		next := slog.NewTextHandler(&bytes.Buffer{}, nil)
		assert.Same(t, next, logger.NewContextHandler(next, nil, nil))
	})

	t.Run("explicit attribute wins", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := slog.New(logger.NewContextHandler(slog.NewTextHandler(buf, nil), ridExtractor))
		ctx := context.WithValue(context.Background(), ridKey{}, "from-ctx")

		log.InfoContext(ctx, "msg", slog.String("request_id", "explicit"))
		assert.Equal(t, 1, strings.Count(buf.String(), "request_id="))
		assert.Contains(t, buf.String(), "request_id=explicit")
	})

	t.Run("survives WithAttrs", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := slog.New(logger.NewContextHandler(slog.NewTextHandler(buf, nil), ridExtractor)).With("svc", "x")
		log.InfoContext(context.WithValue(context.Background(), ridKey{}, "abc"), "msg")
		assert.Contains(t, buf.String(), "svc=x")
		assert.Contains(t, buf.String(), "request_id=abc")
	})
}
