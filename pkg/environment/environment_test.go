package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/studylog/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]environment.Environment{
		"prod":       environment.Production,
		"Production": environment.Production,
		"stage":      environment.Staging,
		"staging":    environment.Staging,
		"dev":        environment.Development,
		"":           environment.Development,
		"whatever":   environment.Development,
	}
	for in, want := range tests {
		assert.Equal(t, want, environment.Parse(in), in)
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := environment.WithContext(context.Background(), environment.Production)
	assert.True(t, environment.IsProduction(ctx))
	assert.False(t, environment.IsDevelopment(ctx))
	assert.Equal(t, environment.Environment(""), environment.FromContext(context.Background()))

	attr, ok := environment.LoggerExtractor()(ctx)
	assert.True(t, ok)
	assert.Equal(t, "production", attr.Value.String())

	_, ok = environment.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got environment.Environment
	h := environment.Middleware(environment.Staging)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = environment.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, environment.Staging, got)
}
