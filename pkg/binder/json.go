package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize bounds JSON request bodies.
const DefaultMaxJSONSize = 1 << 20

// JSON decodes an application/json body strictly: unknown fields and
// trailing data are rejected. Requests without a body method are skipped.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if !hasBody(r) {
			return ErrBinderNotApplicable
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, contentType)
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			}
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}
		if dec.More() {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}
		if dec.InputOffset() > DefaultMaxJSONSize {
			return fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, DefaultMaxJSONSize)
		}
		return nil
	}
}
