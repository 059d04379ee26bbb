package i18n_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/studylog/pkg/i18n"
)

func TestNegotiator_Match(t *testing.T) {
	t.Parallel()
	n := i18n.NewNegotiator("ja", "en")

	tests := []struct {
		header string
		want   string
	}{
		{"ja", "ja"},
		{"ja-JP,ja;q=0.9,en;q=0.8", "ja"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR,en;q=0.5", "en"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Match(tt.header))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	n := i18n.NewNegotiator("ja", "en")

	serve := func(r *http.Request) string {
		var got string
		h := i18n.Middleware(n.Extractor(), "ja")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = i18n.GetLocale(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), r)
		return got
	}

	t.Run("accept-language", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "en-GB,en;q=0.8")
		assert.Equal(t, "en", serve(r))
	})

	t.Run("query wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?lang=ja", nil)
		r.Header.Set("Accept-Language", "en")
		assert.Equal(t, "ja", serve(r))
	})

	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
		assert.Equal(t, "en", serve(r))
	})

	t.Run("fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, "ja", serve(r))
	})
}
