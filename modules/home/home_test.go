package home_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/modules/home"
	"github.com/dmitrymomot/studylog/pkg/cookie"
	"github.com/dmitrymomot/studylog/pkg/toast"
)

func page(p home.Params) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "toast=%s signed_in=%t", p.Toast.Title, p.Principal != nil)
		return err
	})
}

func TestHome_ShowsFlashOnce(t *testing.T) {
	t.Parallel()

	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)
	h := home.NewService(page, cookies, nil).Handle()

	set := httptest.NewRecorder()
	require.NoError(t, cookies.SetFlash(set, handler.FlashToastKey, toast.Success("Password updated")))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range set.Result().Cookies() {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "toast=Password updated signed_in=false", w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "toast= signed_in=false", w.Body.String())
}
