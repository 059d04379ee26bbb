package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/pkg/binder"
	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/toast"
)

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	var shown toast.Toast
	cfg := handler.ErrorHandlerConfig{
		ErrorPage: func(p handler.ErrorPageParams) templ.Component {
			return text("page:" + p.Message)
		},
		Toast: func(tt toast.Toast) templ.Component {
			shown = tt
			return text("<div>" + tt.Title + "</div>")
		},
		Translate: func(_ context.Context, key string) string { return "T(" + key + ")" },
	}

	t.Run("page for plain requests", func(t *testing.T) {
		buf := &bytes.Buffer{}
		eh := handler.NewErrorHandler(logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatJSON)), cfg)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/study", nil)
		eh(handler.NewContext(w, r), handler.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "page:T(errors.not_found)", w.Body.String())
		assert.Contains(t, buf.String(), `"level":"WARN"`)
	})

	t.Run("toast for datastar requests", func(t *testing.T) {
		eh := handler.NewErrorHandler(nil, cfg)
		w := httptest.NewRecorder()
		eh(handler.NewContext(w, dataStarRequest(http.MethodPost, "/")), errors.New("boom"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "#toast-container")
		assert.Equal(t, toast.SeverityError, shown.Severity)
		assert.Equal(t, "T(errors.internal)", shown.Title)
	})

	t.Run("binding errors are bad requests", func(t *testing.T) {
		eh := handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{})
		w := httptest.NewRecorder()
		eh(handler.NewContext(w, httptest.NewRequest(http.MethodPost, "/", nil)), binder.ErrMissingContentType)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
