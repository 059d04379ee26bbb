package identity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

type principalContextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns nil when the request is signed out.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// PrincipalResolver resolves the principal bound to a session.
type PrincipalResolver interface {
	CurrentPrincipal(ctx context.Context, sessionID string) (*Principal, error)
}

// Middleware stores the session's principal in the request context.
// sessionID extracts the browser session ID from the request context.
func Middleware(resolver PrincipalResolver, sessionID func(context.Context) string, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p, err := resolver.CurrentPrincipal(ctx, sessionID(ctx))
			if err != nil {
				log.ErrorContext(ctx, "failed to resolve principal", logger.Error(err), logger.Component("identity"))
			}
			if p != nil {
				ctx = WithPrincipal(ctx, p)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerExtractor adds user_id to log records of signed-in requests.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p := PrincipalFromContext(ctx); p != nil {
			return logger.UserID(p.ID), true
		}
		return slog.Attr{}, false
	}
}
