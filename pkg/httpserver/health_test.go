package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/studylog/pkg/httpserver"
)

func TestLiveness(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	httpserver.Liveness()(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all up", func(t *testing.T) {
		w := httptest.NewRecorder()
		h := httpserver.Readiness(nil, time.Second, map[string]httpserver.Check{"postgres": up, "redis": up})
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"postgres":"up","redis":"up"}`, w.Body.String())
	})

	t.Run("one down", func(t *testing.T) {
		w := httptest.NewRecorder()
		h := httpserver.Readiness(nil, time.Second, map[string]httpserver.Check{"postgres": up, "mongo": down})
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"postgres":"up","mongo":"down"}`, w.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		w := httptest.NewRecorder()
		httpserver.Readiness(nil, 0, nil)(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{}`, w.Body.String())
	})
}
