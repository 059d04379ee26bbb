package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Liveness always answers 200 "ALIVE".
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}

// Readiness runs every check with timeout and answers 200 with a per-check
// status map, or 503 if any check failed.
func Readiness(log *slog.Logger, timeout time.Duration, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					slog.String("check", name),
					logger.Error(err),
					logger.Component("httpserver"),
				)
				result[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "up"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result)
	}
}
