package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/pkg/binder"
	"github.com/dmitrymomot/studylog/pkg/clientip"
	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
	"github.com/dmitrymomot/studylog/pkg/session"
	"github.com/dmitrymomot/studylog/pkg/toast"
	"github.com/dmitrymomot/studylog/svc/identity"
)

// Toast keys raised by sign-in and sign-up.
const (
	KeyInvalidCredentials = "account.login.invalid"
	KeySignedIn           = "account.login.success"
	KeySignedOut          = "account.logout.success"
	KeyEmailTaken         = "account.register.email_taken"
	KeyInvalidEmail       = "account.register.invalid_email"
	KeyWeakPassword       = "account.register.weak_password"
	KeyRegistered         = "account.register.success"
	KeyTooManyAttempts    = "account.login.too_many_attempts"
	KeyInternal           = "errors.internal"
)

// AuthFormTarget is the element id login and register forms are patched into.
const AuthFormTarget = "#auth-form"

// Authenticator signs browser sessions in and out.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*identity.Principal, error)
	SignIn(ctx context.Context, sessionID, email, password string) (*identity.Principal, error)
	SignOut(ctx context.Context, sessionID string) error
}

// SessionRotator issues a fresh session token while keeping the session id.
type SessionRotator interface {
	Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*session.Session, error)
}

// AuthService serves sign-in, sign-up and sign-out.
type AuthService struct {
	cfg          Config
	auth         Authenticator
	sessions     SessionRotator
	translate    Translate
	flash        handler.Flasher
	views        *AuthServiceViews
	errorHandler handler.ErrorHandler[handler.Context]
	log          *slog.Logger
	limiter      SignInLimiter
}

// SignInLimiter throttles failed sign-in attempts per client and email.
type SignInLimiter interface {
	Allow(ctx context.Context, key string) (ratelimiter.Result, error)
	Reset(ctx context.Context, key string) error
}

type AuthOption func(*AuthService)

// WithSignInLimiter enables sign-in throttling.
func WithSignInLimiter(l SignInLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

type AuthServiceViews struct {
	LoginPage    func(AuthPageParams) templ.Component
	LoginForm    func(AuthFormParams) templ.Component
	RegisterPage func(AuthPageParams) templ.Component
	RegisterForm func(AuthFormParams) templ.Component
	Toast        func(toast.Toast) templ.Component
}

// AuthFormParams contains data for rendering login and register forms.
type AuthFormParams struct {
	Email       string
	RedirectURL string
}

// AuthPageParams contains data for rendering login and register pages.
type AuthPageParams struct {
	AuthFormParams
	Toast toast.Toast
}

// LoginRequest handles both GET (query params) and POST (form data).
type LoginRequest struct {
	Email       string `form:"email" query:"email"`
	Password    string `form:"password"`
	RedirectURL string `form:"redirect_url" query:"redirect"`
}

// RegisterRequest handles both GET (query params) and POST (form data).
type RegisterRequest struct {
	Email        string `form:"email" query:"email"`
	Password     string `form:"password"`
	PasswordConf string `form:"passwordConf"`
	RedirectURL  string `form:"redirect_url" query:"redirect"`
}

func NewAuthService(
	cfg Config,
	auth Authenticator,
	sessions SessionRotator,
	translate Translate,
	flash handler.Flasher,
	views *AuthServiceViews,
	errorHandler handler.ErrorHandler[handler.Context],
	log *slog.Logger,
	opts ...AuthOption,
) *AuthService {
	if translate == nil {
		translate = func(_ context.Context, key string, _ ...string) string { return key }
	}
	if log == nil {
		log = logger.Discard()
	}
	s := &AuthService{
		cfg:          cfg.withDefaults(),
		auth:         auth,
		sessions:     sessions,
		translate:    translate,
		flash:        flash,
		views:        views,
		errorHandler: errorHandler,
		log:          log.With(logger.Component("account.auth")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Handle() http.Handler {
	r := chi.NewRouter()

	r.HandleFunc("/login", handler.Wrap(s.login,
		handler.WithBinders[handler.Context, LoginRequest](
			binder.Query(),
			binder.Form(),
		),
		handler.WithErrorHandler[handler.Context, LoginRequest](s.errorHandler),
	))
	r.HandleFunc("/register", handler.Wrap(s.register,
		handler.WithBinders[handler.Context, RegisterRequest](
			binder.Query(),
			binder.Form(),
		),
		handler.WithErrorHandler[handler.Context, RegisterRequest](s.errorHandler),
	))
	r.Post("/logout", handler.Wrap(s.logout,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	return r
}

func (s *AuthService) login(ctx handler.Context, req LoginRequest) handler.Response {
	params := AuthFormParams{Email: req.Email, RedirectURL: req.RedirectURL}
	if ctx.Request().Method != http.MethodPost {
		return handler.TemplPartial(
			s.views.LoginForm(params),
			s.views.LoginPage(AuthPageParams{AuthFormParams: params}),
			handler.WithTarget(AuthFormTarget),
		)
	}

	throttleKey := ratelimiter.Key("signin", clientip.FromContext(ctx), strings.ToLower(strings.TrimSpace(req.Email)))
	if res, limited := s.throttled(ctx, throttleKey); limited {
		ratelimiter.SetHeaders(ctx.ResponseWriter(), res)
		return s.formToast(ctx, toast.Warning(s.translate(ctx, KeyTooManyAttempts)), params, s.views.LoginForm, s.views.LoginPage, http.StatusTooManyRequests)
	}

	sessionID := session.IDFromContext(ctx)
	p, err := s.auth.SignIn(ctx, sessionID, req.Email, req.Password)
	if err != nil {
		return s.authFailure(ctx, err, params, s.views.LoginForm, s.views.LoginPage)
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, throttleKey); err != nil {
			s.log.WarnContext(ctx, "failed to reset sign-in throttle", logger.Error(err))
		}
	}
	if _, err := s.sessions.Rotate(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		return handler.Error(err)
	}

	s.log.InfoContext(ctx, "signed in", logger.UserID(p.ID))
	return handler.RedirectWithToast(s.safeRedirect(req.RedirectURL), toast.Success(s.translate(ctx, KeySignedIn)), s.views.Toast, s.flash)
}

func (s *AuthService) register(ctx handler.Context, req RegisterRequest) handler.Response {
	params := AuthFormParams{Email: req.Email, RedirectURL: req.RedirectURL}
	if ctx.Request().Method != http.MethodPost {
		return handler.TemplPartial(
			s.views.RegisterForm(params),
			s.views.RegisterPage(AuthPageParams{AuthFormParams: params}),
			handler.WithTarget(AuthFormTarget),
		)
	}

	if req.Password != req.PasswordConf {
		return s.formToast(ctx, toast.Error(s.translate(ctx, KeyMismatch)), params, s.views.RegisterForm, s.views.RegisterPage, http.StatusUnprocessableEntity)
	}

	if _, err := s.auth.SignUp(ctx, req.Email, req.Password); err != nil {
		return s.authFailure(ctx, err, params, s.views.RegisterForm, s.views.RegisterPage)
	}
	p, err := s.auth.SignIn(ctx, session.IDFromContext(ctx), req.Email, req.Password)
	if err != nil {
		return s.authFailure(ctx, err, params, s.views.RegisterForm, s.views.RegisterPage)
	}
	if _, err := s.sessions.Rotate(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		return handler.Error(err)
	}

	s.log.InfoContext(ctx, "registered", logger.UserID(p.ID))
	return handler.RedirectWithToast(s.safeRedirect(req.RedirectURL), toast.Success(s.translate(ctx, KeyRegistered)), s.views.Toast, s.flash)
}

func (s *AuthService) logout(ctx handler.Context, _ struct{}) handler.Response {
	sessionID := session.IDFromContext(ctx)
	if err := s.auth.SignOut(ctx, sessionID); err != nil && !errors.Is(err, identity.ErrEmptySessionID) {
		return handler.Error(err)
	}
	if _, err := s.sessions.Rotate(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil && !session.IsNotFound(err) {
		return handler.Error(err)
	}
	return handler.RedirectWithToast(s.cfg.LoginPath, toast.Info(s.translate(ctx, KeySignedOut)), s.views.Toast, s.flash)
}

// throttled consumes one sign-in attempt. Limiter failures let the attempt
// through.
func (s *AuthService) throttled(ctx context.Context, key string) (ratelimiter.Result, bool) {
	if s.limiter == nil {
		return ratelimiter.Result{}, false
	}
	res, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "sign-in throttle unavailable", logger.Error(err))
		return res, false
	}
	if !res.Allowed() {
		s.log.WarnContext(ctx, "sign-in throttled", slog.String("client_ip", clientip.FromContext(ctx)))
	}
	return res, !res.Allowed()
}

func (s *AuthService) authFailure(
	ctx handler.Context,
	err error,
	params AuthFormParams,
	form func(AuthFormParams) templ.Component,
	page func(AuthPageParams) templ.Component,
) handler.Response {
	var key string
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrUserNotFound):
		key, status = KeyInvalidCredentials, http.StatusUnauthorized
	case errors.Is(err, identity.ErrEmailTaken):
		key, status = KeyEmailTaken, http.StatusConflict
	case errors.Is(err, identity.ErrInvalidEmail):
		key = KeyInvalidEmail
	case errors.Is(err, identity.ErrWeakPassword):
		key = KeyWeakPassword
	default:
		s.log.ErrorContext(ctx, "authentication failed", logger.Error(err))
		key, status = KeyInternal, http.StatusInternalServerError
	}
	return s.formToast(ctx, toast.Error(s.translate(ctx, key)), params, form, page, status)
}

func (s *AuthService) formToast(
	_ context.Context,
	t toast.Toast,
	params AuthFormParams,
	form func(AuthFormParams) templ.Component,
	page func(AuthPageParams) templ.Component,
	status int,
) handler.Response {
	return handler.WithStatus(
		handler.TemplMultiPage(
			page(AuthPageParams{AuthFormParams: params, Toast: t}),
			handler.ToastPatch(s.views.Toast(t)),
			handler.Patch(form(params), handler.WithTarget(AuthFormTarget)),
		),
		status,
	)
}

// safeRedirect only follows local absolute paths.
func (s *AuthService) safeRedirect(target string) string {
	if handler.IsLocalPath(target) {
		return target
	}
	return s.cfg.HomePath
}
