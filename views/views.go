package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/modules/account"
	"github.com/dmitrymomot/studylog/modules/home"
	"github.com/dmitrymomot/studylog/pkg/toast"
)

// Views binds the page components to a translator.
type Views struct {
	translate Translate
}

// New returns Views localizing with translate. A nil translate shows keys
// verbatim.
func New(translate Translate) *Views {
	return &Views{translate: translate}
}

// localized renders c with the translator in its context, so every nested
// component localizes for the request it renders in.
func (v *Views) localized(c templ.Component) templ.Component {
	if v.translate == nil {
		return c
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return c.Render(withTranslate(ctx, v.translate), w)
	})
}

func (v *Views) page(titleKey string, body templ.Component) templ.Component {
	return v.localized(templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(t(ctx, titleKey), body).Render(ctx, w)
	}))
}

func (v *Views) Home(p home.Params) templ.Component {
	return v.page("home.title", homeBody(p))
}

func (v *Views) Toast(tt toast.Toast) templ.Component {
	return v.localized(toastView(tt))
}

func (v *Views) ErrorPage(p handler.ErrorPageParams) templ.Component {
	return v.page("errors.title", errorBody(p))
}

func (v *Views) PasswordPage(p account.PasswordPageParams) templ.Component {
	return v.page("account.password.title", passwordBody(p))
}

func (v *Views) PasswordForm(p account.PasswordFormParams) templ.Component {
	return v.localized(passwordForm(p))
}

func (v *Views) LoginPage(p account.AuthPageParams) templ.Component {
	return v.page("account.login.title", v.authBody("account.login.title", p.Toast, loginForm(p.AuthFormParams)))
}

func (v *Views) LoginForm(p account.AuthFormParams) templ.Component {
	return v.localized(loginForm(p))
}

func (v *Views) RegisterPage(p account.AuthPageParams) templ.Component {
	return v.page("account.register.title", v.authBody("account.register.title", p.Toast, registerForm(p.AuthFormParams)))
}

func (v *Views) RegisterForm(p account.AuthFormParams) templ.Component {
	return v.localized(registerForm(p))
}

func (v *Views) authBody(titleKey string, msg toast.Toast, form templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return authBody(t(ctx, titleKey), msg, form).Render(ctx, w)
	})
}

// Password returns the views the password service renders with.
func (v *Views) Password() *account.PasswordServiceViews {
	return &account.PasswordServiceViews{
		Page:  v.PasswordPage,
		Form:  v.PasswordForm,
		Toast: v.Toast,
	}
}

// Auth returns the views the sign-in service renders with.
func (v *Views) Auth() *account.AuthServiceViews {
	return &account.AuthServiceViews{
		LoginPage:    v.LoginPage,
		LoginForm:    v.LoginForm,
		RegisterPage: v.RegisterPage,
		RegisterForm: v.RegisterForm,
		Toast:        v.Toast,
	}
}
