package ratelimiter

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"strings"
)

const maxKeyLength = 64

// KeyFunc extracts the bucket key from a request. An empty key skips
// limiting for that request.
type KeyFunc func(r *http.Request) string

// Composite joins the non-empty keys with ":". Keys longer than 64 bytes
// are replaced by their FNV-1a hash.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		return Key(parts...)
	}
}

// Key joins parts the same way Composite does.
func Key(parts ...string) string {
	combined := strings.Join(parts, ":")
	if len(combined) <= maxKeyLength {
		return combined
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(combined))
	return strconv.FormatUint(h.Sum64(), 36)
}

// SetHeaders writes the X-RateLimit-* headers and, for denied results,
// Retry-After.
func SetHeaders(w http.ResponseWriter, res Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
	if !res.Allowed() {
		// Round up so clients never retry early.
		secs := int(math.Ceil(res.RetryAfter().Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
	}
}

// Middleware limits requests per key. onLimit renders denied requests and
// onError renders store failures; both default to plain-text responses.
func Middleware(l Limiter, keyFunc KeyFunc, onLimit, onError http.HandlerFunc) func(http.Handler) http.Handler {
	if onLimit == nil {
		onLimit = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}
	}
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			res, err := l.Allow(r.Context(), key)
			if err != nil {
				onError(w, r)
				return
			}
			SetHeaders(w, res)
			if !res.Allowed() {
				onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
