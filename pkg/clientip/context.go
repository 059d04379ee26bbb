package clientip

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}

// Middleware stores the resolved client IP in the request context.
func (res Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}
