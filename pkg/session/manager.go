package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/studylog/pkg/cookie"
	"github.com/dmitrymomot/studylog/pkg/logger"
)

// Manager issues sessions and carries their token in a signed cookie.
type Manager struct {
	store   Store
	cookies *cookie.Manager
	cfg     Config
	log     *slog.Logger
}

type Option func(*Manager)

func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		if cfg.CookieName != "" {
			m.cfg.CookieName = cfg.CookieName
		}
		if cfg.TTL > 0 {
			m.cfg.TTL = cfg.TTL
		}
		if cfg.TouchInterval > 0 {
			m.cfg.TouchInterval = cfg.TouchInterval
		}
		m.cfg.CleanupInterval = cfg.CleanupInterval
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New panics when cookies is nil.
func New(cookies *cookie.Manager, opts ...Option) *Manager {
	if cookies == nil {
		panic("session: cookie manager is required")
	}
	m := &Manager{
		cookies: cookies,
		cfg:     DefaultConfig(),
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.cfg.CleanupInterval)
	}
	return m
}

// Get loads the session referenced by the request cookie.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.cookies.GetSigned(r, m.cfg.CookieName)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(ctx, token)
}

// Ensure returns the current session or starts a new one.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	s, err := m.Get(ctx, r)
	if err == nil {
		if time.Since(s.LastActivityAt) >= m.cfg.TouchInterval {
			s.LastActivityAt = time.Now()
			s.ExpiresAt = s.LastActivityAt.Add(m.cfg.TTL)
			if err := m.store.Save(ctx, s); err != nil {
				m.log.WarnContext(ctx, "failed to touch session", logger.Error(err), logger.Component("session"))
			}
			m.setCookie(w, s)
		}
		return s, nil
	}

	s, err = newSession(m.cfg.TTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.setCookie(w, s)
	return s, nil
}

// Rotate issues a new token for the current session while keeping its ID.
// Call it whenever the session's privilege changes.
func (m *Manager) Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	s, err := m.Get(ctx, r)
	if err != nil {
		return nil, err
	}
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	old := s.Token
	s.Token = token
	s.LastActivityAt = time.Now()
	s.ExpiresAt = s.LastActivityAt.Add(m.cfg.TTL)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	if err := m.store.Delete(ctx, old); err != nil {
		m.log.WarnContext(ctx, "failed to delete rotated session token", logger.Error(err), logger.Component("session"))
	}
	m.setCookie(w, s)
	return s, nil
}

// Destroy removes the session and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer m.cookies.Delete(w, m.cfg.CookieName)
	token, err := m.cookies.GetSigned(r, m.cfg.CookieName)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, token)
}

func (m *Manager) setCookie(w http.ResponseWriter, s *Session) {
	m.cookies.SetSigned(w, m.cfg.CookieName, s.Token, cookie.WithMaxAge(int(m.cfg.TTL.Seconds())))
}

// Middleware ensures every request carries a session in its context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Ensure(r.Context(), w, r)
		if err != nil {
			m.log.ErrorContext(r.Context(), "failed to ensure session", logger.Error(err), logger.Component("session"))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// IsNotFound reports whether err means the request has no usable session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired)
}
