package environment

import (
	"context"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Staging     Environment = "staging"
)

// Parse maps the usual short aliases onto an Environment. Unknown values
// fall back to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

type contextKey struct{}

// WithContext adds environment to context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context. Returns "" when absent.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

func IsProduction(ctx context.Context) bool {
	return FromContext(ctx) == Production
}

func IsDevelopment(ctx context.Context) bool {
	return FromContext(ctx) == Development
}
