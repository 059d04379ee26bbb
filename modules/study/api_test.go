package study_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/modules/study"
	"github.com/dmitrymomot/studylog/svc/identity"
	studysvc "github.com/dmitrymomot/studylog/svc/study"
)

type envelope struct {
	Data  json.RawMessage       `json:"data"`
	Error *handler.ErrorDetail `json:"error"`
}

func newAPI(t *testing.T, p *identity.Principal) http.Handler {
	t.Helper()
	api := study.NewAPIService(studysvc.NewService(studysvc.NewMemoryStorage()), handler.NewJSONErrorHandler(nil))
	h := api.Handle()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
	})
}

func call(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestAPI_RequiresPrincipal(t *testing.T) {
	t.Parallel()

	h := newAPI(t, nil)
	w, env := call(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, handler.ErrUnauthorized.Key, env.Error.Code)

	w, _ = call(t, h, http.MethodPost, "/", `{"title":"Go","time":1}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_CreateAndList(t *testing.T) {
	t.Parallel()

	p := &identity.Principal{ID: uuid.New(), Email: "user@example.com"}
	h := newAPI(t, p)

	w, env := call(t, h, http.MethodPost, "/", `{"title":"Go","time":25.5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created studysvc.StudyData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user@example.com", created.Email)
	assert.Equal(t, "Go", created.Title)
	assert.InDelta(t, 25.5, created.Time, 0)

	w, env = call(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []studysvc.StudyData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, []studysvc.StudyData{created}, list)

	w, env = call(t, h, http.MethodGet, "/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got studysvc.StudyData
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created, got)

	w, _ = call(t, h, http.MethodDelete, "/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, h, http.MethodGet, "/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_EmailIsForcedToPrincipal(t *testing.T) {
	t.Parallel()

	h := newAPI(t, &identity.Principal{ID: uuid.New(), Email: "user@example.com"})
	w, env := call(t, h, http.MethodPost, "/", `{"id":"x","email":"other@example.com","title":"Go","time":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created studysvc.StudyData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "user@example.com", created.Email)
	assert.NotEqual(t, "x", created.ID)

	w, env = call(t, h, http.MethodPost, "/", `{"title":"Go","time":1,"extra":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown fields are rejected")
	require.NotNil(t, env.Error)
}

func TestAPI_Validation(t *testing.T) {
	t.Parallel()

	h := newAPI(t, &identity.Principal{ID: uuid.New(), Email: "user@example.com"})
	w, env := call(t, h, http.MethodPost, "/", `{"title":"","time":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "title")
	assert.Contains(t, env.Error.Details, "time")
}
