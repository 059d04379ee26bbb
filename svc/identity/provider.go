package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/studylog/pkg/broadcast"
	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/validator"
)

// LocalProvider implements Provider on top of Storage and StateStore.
type LocalProvider struct {
	users   Storage
	states  StateStore
	changes broadcast.Broadcaster[AuthStateChange]
	cfg     Config
	log     *slog.Logger
	now     func() time.Time

	mu           sync.Mutex
	recentLogins map[uuid.UUID]time.Time
}

var _ Provider = (*LocalProvider)(nil)

type Option func(*LocalProvider)

func WithConfig(cfg Config) Option {
	return func(p *LocalProvider) {
		if cfg.RecentLoginWindow > 0 {
			p.cfg.RecentLoginWindow = cfg.RecentLoginWindow
		}
		if cfg.MinPasswordLength > 0 {
			p.cfg.MinPasswordLength = cfg.MinPasswordLength
		}
		if cfg.BcryptCost > 0 {
			p.cfg.BcryptCost = cfg.BcryptCost
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *LocalProvider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock replaces time.Now, for tests of the recent-login window.
func WithClock(now func() time.Time) Option {
	return func(p *LocalProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithBroadcaster sets the hub auth state changes are published on.
func WithBroadcaster(b broadcast.Broadcaster[AuthStateChange]) Option {
	return func(p *LocalProvider) {
		if b != nil {
			p.changes = b
		}
	}
}

func NewLocalProvider(users Storage, states StateStore, opts ...Option) *LocalProvider {
	p := &LocalProvider{
		users:        users,
		states:       states,
		cfg:          DefaultConfig(),
		log:          logger.Discard(),
		now:          time.Now,
		recentLogins: make(map[uuid.UUID]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.changes == nil {
		p.changes = broadcast.NewMemoryBroadcaster[AuthStateChange](16)
	}
	p.log = p.log.With(logger.Component("identity"))
	return p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) checkPasswordPolicy(password string) error {
	if err := validator.Apply(validator.MinUTF16Length("password", password, p.cfg.MinPasswordLength)); err != nil {
		return errors.Join(ErrWeakPassword, err)
	}
	return nil
}

func (p *LocalProvider) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errors.Join(ErrWeakPassword, err)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// SignUp registers a new user. It does not sign the user in.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Principal, error) {
	email = normalizeEmail(email)
	if err := validator.Apply(validator.ValidEmail("email", email)); err != nil {
		return nil, errors.Join(ErrInvalidEmail, err)
	}
	if err := p.checkPasswordPolicy(password); err != nil {
		return nil, err
	}
	h, err := p.hash(password)
	if err != nil {
		return nil, err
	}

	u := User{ID: uuid.New(), Email: email, CreatedAt: p.now().UTC()}
	if err := p.users.CreateUser(ctx, u, h); err != nil {
		return nil, err
	}
	p.log.InfoContext(ctx, "user registered", logger.UserID(u.ID), logger.Event("sign_up"))
	return u.Principal(), nil
}

// SignIn verifies the password and binds sessionID to the user.
func (p *LocalProvider) SignIn(ctx context.Context, sessionID, email, password string) (*Principal, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	u, h, err := p.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(h, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if err := p.states.Bind(ctx, sessionID, u.ID); err != nil {
		return nil, fmt.Errorf("bind session: %w", err)
	}
	p.markRecentLogin(u.ID)

	principal := u.Principal()
	p.publish(ctx, sessionID, principal)
	p.log.InfoContext(ctx, "user signed in", logger.UserID(u.ID), logger.SessionID(sessionID), logger.Event("sign_in"))
	return principal, nil
}

// SignOut unbinds sessionID. Signing out a signed-out session is a no-op
// that still notifies observers.
func (p *LocalProvider) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if err := p.states.Unbind(ctx, sessionID); err != nil {
		return fmt.Errorf("unbind session: %w", err)
	}
	p.publish(ctx, sessionID, nil)
	p.log.InfoContext(ctx, "user signed out", logger.SessionID(sessionID), logger.Event("sign_out"))
	return nil
}

// CurrentPrincipal returns nil, nil for signed-out sessions.
func (p *LocalProvider) CurrentPrincipal(ctx context.Context, sessionID string) (*Principal, error) {
	if sessionID == "" {
		return nil, nil
	}
	id, err := p.states.Lookup(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if id == uuid.Nil {
		return nil, nil
	}
	u, _, err := p.users.GetUserByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.Principal(), nil
}

// Reauthenticate confirms the principal's password and refreshes the
// recent-login mark required by UpdatePassword.
func (p *LocalProvider) Reauthenticate(ctx context.Context, principal *Principal, cred Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if principal == nil {
		return ErrNoPrincipal
	}
	if normalizeEmail(cred.Email) != normalizeEmail(principal.Email) {
		return ErrUserMismatch
	}
	_, h, err := p.users.GetUserByID(ctx, principal.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(h, []byte(cred.Password)) != nil {
		p.log.WarnContext(ctx, "reauthentication failed", logger.UserID(principal.ID), logger.Event("reauthenticate"))
		return ErrInvalidCredentials
	}
	p.markRecentLogin(principal.ID)
	return nil
}

// UpdatePassword replaces the principal's password. It requires a sign-in or
// reauthentication within the recent-login window.
func (p *LocalProvider) UpdatePassword(ctx context.Context, principal *Principal, newPassword string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if principal == nil {
		return ErrNoPrincipal
	}
	if !p.hasRecentLogin(principal.ID) {
		return ErrRequiresRecentLogin
	}
	if err := p.checkPasswordPolicy(newPassword); err != nil {
		return err
	}
	h, err := p.hash(newPassword)
	if err != nil {
		return err
	}
	if err := p.users.UpdatePasswordHash(ctx, principal.ID, h); err != nil {
		return err
	}
	p.log.InfoContext(ctx, "password updated", logger.UserID(principal.ID), logger.Event("update_password"))
	return nil
}

// OnAuthStateChanged implements StateSource.
func (p *LocalProvider) OnAuthStateChanged(ctx context.Context, sessionID string, fn func(*Principal)) func() {
	ctx, cancel := context.WithCancel(ctx)
	// Subscribe before reading the current state so no change falls in between.
	sub := p.changes.Subscribe(ctx)

	current, err := p.CurrentPrincipal(ctx, sessionID)
	if err != nil {
		p.log.WarnContext(ctx, "failed to resolve current principal", logger.Error(err), logger.SessionID(sessionID))
	}
	fn(current)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Receive() {
			if msg.Data.SessionID != sessionID {
				continue
			}
			var principal *Principal
			if msg.Data.Principal != nil {
				cp := *msg.Data.Principal
				principal = &cp
			}
			fn(principal)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = sub.Close()
			<-done
		})
	}
}

// Close shuts the change hub down; open subscriptions end.
func (p *LocalProvider) Close() error {
	return p.changes.Close()
}

func (p *LocalProvider) publish(ctx context.Context, sessionID string, principal *Principal) {
	msg := broadcast.Message[AuthStateChange]{Data: AuthStateChange{SessionID: sessionID, Principal: principal}}
	if err := p.changes.Broadcast(ctx, msg); err != nil {
		p.log.WarnContext(ctx, "failed to publish auth state change", logger.Error(err), logger.SessionID(sessionID))
	}
}

// markRecentLogin also drops every mark older than the window.
func (p *LocalProvider) markRecentLogin(id uuid.UUID) {
	now := p.now()
	p.mu.Lock()
	defer p.mu.Unlock()
	for uid, at := range p.recentLogins {
		if now.Sub(at) > p.cfg.RecentLoginWindow {
			delete(p.recentLogins, uid)
		}
	}
	p.recentLogins[id] = now
}

func (p *LocalProvider) hasRecentLogin(id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	at, ok := p.recentLogins[id]
	if !ok {
		return false
	}
	if p.now().Sub(at) > p.cfg.RecentLoginWindow {
		delete(p.recentLogins, id)
		return false
	}
	return true
}
