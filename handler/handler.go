package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/studylog/pkg/binder"
)

// HandlerFunc is a typed HTTP handler: it receives a request context C and a
// bound request value R and returns a Response to render.
//
//	h := handler.HandlerFunc[handler.Context, LoginRequest](
//		func(ctx handler.Context, req LoginRequest) handler.Response {
//			return handler.Redirect("/")
//		},
//	)
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses HTTP requests into typed values.
type Bind func(r *http.Request, v any) error

// ErrorHandler handles errors from binding or rendering.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc. The first decorator passed to
// WithDecorators is the outermost.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
}

// WithBinders sets request binders applied in order. Binders returning
// binder.ErrBinderNotApplicable are skipped.
//
//	handler.Wrap(h, handler.WithBinders[handler.Context, Form](binder.Query(), binder.Form()))
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextFactory is required when C is not the default Context.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

func defaultErrorHandler[C Context](ctx C, err error) {
	info := classifyError(err)
	http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		errorHandler: defaultErrorHandler[C],
		contextFactory: func(w http.ResponseWriter, r *http.Request) C {
			if c, ok := any(NewContext(w, r)).(C); ok {
				return c
			}
			panic("handler: cannot use default context factory with custom context type, provide WithContextFactory")
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				if errors.Is(err, binder.ErrBinderNotApplicable) {
					continue
				}
				cfg.errorHandler(ctx, err)
				return
			}
		}

		response := final(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
