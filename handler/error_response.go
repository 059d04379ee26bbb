package handler

import "net/http"

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error hands err to the route's ErrorHandler instead of rendering.
func Error(err error) Response {
	return errorResponse{err: err}
}
