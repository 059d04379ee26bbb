package session

import "context"

type sessionContextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok && s != nil
}

// IDFromContext returns the session ID as a string, or "" when the request
// carries no session.
func IDFromContext(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.ID.String()
	}
	return ""
}
