package account

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/pkg/binder"
	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/session"
	"github.com/dmitrymomot/studylog/pkg/toast"
	"github.com/dmitrymomot/studylog/svc/identity"
)

// PasswordFormTarget is the element id the password form is patched into.
const PasswordFormTarget = "#password-form"

// PasswordService serves the password-update page, its submission, the back
// control and the live auth-state stream.
type PasswordService struct {
	cfg          Config
	source       identity.StateSource
	updater      *PasswordUpdater
	flash        handler.Flasher
	views        *PasswordServiceViews
	errorHandler handler.ErrorHandler[handler.Context]
	log          *slog.Logger
}

type PasswordServiceViews struct {
	Page  func(PasswordPageParams) templ.Component
	Form  func(PasswordFormParams) templ.Component
	Toast func(toast.Toast) templ.Component
}

// PasswordFormParams contains data for rendering the password form.
type PasswordFormParams struct {
	Form      Form
	Principal *identity.Principal
	Busy      bool
}

// PasswordPageParams contains data for rendering the password page.
type PasswordPageParams struct {
	PasswordFormParams
	Toast toast.Toast
}

func NewPasswordService(
	cfg Config,
	source identity.StateSource,
	updater *PasswordUpdater,
	flash handler.Flasher,
	views *PasswordServiceViews,
	errorHandler handler.ErrorHandler[handler.Context],
	log *slog.Logger,
) *PasswordService {
	if log == nil {
		log = logger.Discard()
	}
	return &PasswordService{
		cfg:          cfg.withDefaults(),
		source:       source,
		updater:      updater,
		flash:        flash,
		views:        views,
		errorHandler: errorHandler,
		log:          log.With(logger.Component("account.password")),
	}
}

func (s *PasswordService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.page,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Post("/", handler.Wrap(s.submit,
		handler.WithBinders[handler.Context, Form](binder.Form()),
		handler.WithErrorHandler[handler.Context, Form](s.errorHandler),
	))
	r.Get("/back", handler.Wrap(s.back,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Get("/watch", handler.Wrap(s.watch,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	return r
}

func (s *PasswordService) page(ctx handler.Context, _ struct{}) handler.Response {
	p := identity.PrincipalFromContext(ctx)
	return handler.Templ(s.views.Page(PasswordPageParams{
		PasswordFormParams: PasswordFormParams{Principal: p, Busy: s.updater.IsBusy(p)},
	}))
}

func (s *PasswordService) submit(ctx handler.Context, form Form) handler.Response {
	p := identity.PrincipalFromContext(ctx)
	res := s.updater.Submit(ctx, p, form)
	if res.Succeeded() {
		return handler.RedirectWithToast(res.RedirectTo, res.Toast, s.views.Toast, s.flash)
	}

	params := PasswordFormParams{Form: form, Principal: p}
	return handler.WithStatus(
		handler.TemplMultiPage(
			s.views.Page(PasswordPageParams{PasswordFormParams: params, Toast: res.Toast}),
			handler.ToastPatch(s.views.Toast(res.Toast)),
			handler.Patch(s.views.Form(params), handler.WithTarget(PasswordFormTarget)),
		),
		statusFor(res.Outcome),
	)
}

func (s *PasswordService) back(_ handler.Context, _ struct{}) handler.Response {
	return handler.RedirectBack(s.cfg.HomePath)
}

// watch keeps the form in sync with the session's auth state and sends the
// browser to the login page once it signs out elsewhere.
func (s *PasswordService) watch(ctx handler.Context, _ struct{}) handler.Response {
	sessionID := session.IDFromContext(ctx)
	return handler.SSE(func(stream handler.StreamContext) error {
		return Observe(stream, s.source, sessionID, func(o *Observer) error {
			for {
				select {
				case <-stream.Done():
					return nil
				case <-o.Changes():
				}

				p := o.Principal()
				if p == nil {
					s.log.DebugContext(stream, "session signed out, redirecting", logger.SessionID(sessionID))
					return stream.Redirect(s.cfg.LoginPath)
				}
				params := PasswordFormParams{Principal: p, Busy: s.updater.IsBusy(p)}
				if err := stream.SendComponent(s.views.Form(params), handler.WithTarget(PasswordFormTarget)); err != nil {
					return err
				}
			}
		})
	})
}

func statusFor(o Outcome) int {
	switch o {
	case OutcomeNotSignedIn:
		return http.StatusUnauthorized
	case OutcomeBusy:
		return http.StatusConflict
	case OutcomeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}
