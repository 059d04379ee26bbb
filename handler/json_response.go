package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/dmitrymomot/studylog/pkg/validator"
)

// JSONResponse is the envelope of every JSON API response.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed API call.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON wraps v as {"data": v} with status 200.
func JSON(v any) Response {
	return jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
}

// JSONCreated wraps v with status 201.
func JSONCreated(v any) Response {
	return jsonResponse{status: http.StatusCreated, body: JSONResponse{Data: v}}
}

// JSONError renders err as {"error": {...}} with a status derived from it.
func JSONError(err error) Response {
	info := classifyError(err)
	detail := &ErrorDetail{Code: info.Code, Message: info.Message}

	var ve ValidationError
	if errors.As(err, &ve) && len(ve) > 0 {
		detail.Details = make(map[string][]string, len(ve))
		maps.Copy(detail.Details, ve)
	}
	if vErrs := validator.ExtractValidationErrors(err); len(vErrs) > 0 {
		detail.Details = make(map[string][]string)
		for _, field := range vErrs.Fields() {
			detail.Details[field] = vErrs.Get(field)
		}
	}
	return jsonResponse{status: info.StatusCode, body: JSONResponse{Error: detail}}
}
