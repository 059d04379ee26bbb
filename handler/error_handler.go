package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/studylog/pkg/binder"
	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/requestid"
	"github.com/dmitrymomot/studylog/pkg/toast"
	"github.com/dmitrymomot/studylog/pkg/validator"
)

// ToastTarget is the container element toasts are prepended into.
const ToastTarget = "#toast-container"

// ErrorPageParams is passed to the error page component.
type ErrorPageParams struct {
	Message    string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorHandlerConfig configures NewErrorHandler.
type ErrorHandlerConfig struct {
	// ErrorPage renders a full page for regular requests. Plain text when nil.
	ErrorPage func(ErrorPageParams) templ.Component
	// Toast renders a toast for DataStar requests. Nothing is rendered when nil.
	Toast func(toast.Toast) templ.Component
	// Translate localizes HTTPError keys. Keys are shown verbatim when nil.
	Translate func(ctx context.Context, key string) string
}

// ErrorInfo is the classification of an error for rendering and logging.
type ErrorInfo struct {
	StatusCode int
	Code       string
	Message    string
	Severity   toast.Severity
	LogLevel   slog.Level
}

func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrInternalServerError.Key,
		Message:    ErrInternalServerError.Key,
	}

	var httpErr HTTPError
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		info.StatusCode = http.StatusUnprocessableEntity
		info.Code = "validation_error"
		info.Message = ve.Error()
	case validator.IsValidationError(err):
		info.StatusCode = http.StatusUnprocessableEntity
		info.Code = "validation_error"
		info.Message = err.Error()
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Code = httpErr.Key
		info.Message = httpErr.Key
	case binder.IsBindingError(err):
		info.StatusCode = http.StatusBadRequest
		info.Code = ErrBadRequest.Key
		info.Message = ErrBadRequest.Key
	}

	if info.StatusCode < http.StatusInternalServerError {
		info.Severity = toast.SeverityWarning
		info.LogLevel = slog.LevelWarn
	} else {
		info.Severity = toast.SeverityError
		info.LogLevel = slog.LevelError
	}
	return info
}

// NewErrorHandler returns an ErrorHandler that logs the error and renders a
// toast for DataStar requests or an error page otherwise.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		reqID := requestid.FromContext(r.Context())
		info := classifyError(err)
		if cfg.Translate != nil {
			var httpErr HTTPError
			if errors.As(err, &httpErr) || info.Message == info.Code {
				info.Message = cfg.Translate(r.Context(), info.Message)
			}
		}

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(reqID),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("is_datastar", IsDataStar(r)),
			logger.Component("error_handler"),
		)

		if IsDataStar(r) {
			if cfg.Toast == nil {
				return
			}
			t := toast.New(info.Severity, info.Message)
			resp := Templ(cfg.Toast(t), WithTarget(ToastTarget), WithPatchMode(PatchPrepend))
			if rerr := resp.Render(ctx.ResponseWriter(), r); rerr != nil {
				log.ErrorContext(r.Context(), "failed to render error toast",
					logger.Error(rerr),
					logger.Event("render_error_toast"),
				)
			}
			return
		}

		if cfg.ErrorPage == nil {
			http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
			return
		}
		page := cfg.ErrorPage(ErrorPageParams{
			Message:    info.Message,
			StatusCode: info.StatusCode,
			RequestID:  reqID,
			RetryURL:   r.URL.Path,
		})
		if rerr := WithStatus(Templ(page), info.StatusCode).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render error page",
				logger.Error(rerr),
				logger.Event("render_error_page"),
			)
		}
	}
}
