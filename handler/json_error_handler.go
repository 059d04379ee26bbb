package handler

import (
	"log/slog"

	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/requestid"
)

// NewJSONErrorHandler logs err and renders it as a JSONError envelope. Use it
// for API routes, where an HTML error page makes no sense.
func NewJSONErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := classifyError(err)
		log.LogAttrs(r.Context(), info.LogLevel, "api request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if rerr := JSONError(err).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render json error",
				logger.Error(rerr),
				logger.Event("render_json_error"),
			)
		}
	}
}
