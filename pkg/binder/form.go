package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// DefaultMaxMemory bounds multipart parsing held in memory.
const DefaultMaxMemory = 10 << 20

// Form binds application/x-www-form-urlencoded and multipart/form-data
// bodies into fields tagged `form:"name"`. Requests without a body method
// are skipped with ErrBinderNotApplicable.
//
//	type LoginRequest struct {
//		Email    string `form:"email"`
//		Password string `form:"password"`
//	}
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if !hasBody(r) {
			return ErrBinderNotApplicable
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/x-www-form-urlencoded or multipart/form-data", ErrMissingContentType)
		}
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}

		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			return bindToStruct(v, "form", r.PostForm, ErrFailedToParseForm)
		case "multipart/form-data":
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			return bindToStruct(v, "form", r.MultipartForm.Value, ErrFailedToParseForm)
		case "application/json":
			return ErrBinderNotApplicable
		default:
			return fmt.Errorf("%w: got %s", ErrUnsupportedMediaType, mediaType)
		}
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
