package binder

import "errors"

var (
	// ErrBinderNotApplicable tells the handler chain to skip this binder for
	// the current request (e.g. a form binder on a GET).
	ErrBinderNotApplicable = errors.New("binder not applicable to request")

	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseForm    = errors.New("failed to parse form data")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
)

// IsBindingError reports whether err came from decoding a malformed request.
func IsBindingError(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrMissingContentType) ||
		errors.Is(err, ErrFailedToParseJSON) ||
		errors.Is(err, ErrFailedToParseForm) ||
		errors.Is(err, ErrFailedToParseQuery)
}
