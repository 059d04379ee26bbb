// Package home serves the landing page.
package home

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/pkg/toast"
	"github.com/dmitrymomot/studylog/svc/identity"
)

// FlashReader reads a value stored for this request and forgets it.
type FlashReader interface {
	GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any) error
}

// Params contains data for rendering the home page.
type Params struct {
	Principal *identity.Principal
	Toast     toast.Toast
}

type Service struct {
	page         func(Params) templ.Component
	flash        FlashReader
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewService(page func(Params) templ.Component, flash FlashReader, errorHandler handler.ErrorHandler[handler.Context]) *Service {
	return &Service{page: page, flash: flash, errorHandler: errorHandler}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", handler.Wrap(s.home,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	return r
}

func (s *Service) home(ctx handler.Context, _ struct{}) handler.Response {
	params := Params{Principal: identity.PrincipalFromContext(ctx)}
	if s.flash != nil {
		// A missing or tampered flash just means no toast.
		_ = s.flash.GetFlash(ctx.ResponseWriter(), ctx.Request(), handler.FlashToastKey, &params.Toast)
	}
	return handler.Templ(s.page(params))
}
