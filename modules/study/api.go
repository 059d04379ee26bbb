package study

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/pkg/binder"
	"github.com/dmitrymomot/studylog/svc/identity"
	studysvc "github.com/dmitrymomot/studylog/svc/study"
)

// Recorder is the part of the study service the API needs.
type Recorder interface {
	Record(ctx context.Context, d studysvc.StudyData) (studysvc.StudyData, error)
	List(ctx context.Context, email string) ([]studysvc.StudyData, error)
	Get(ctx context.Context, email, id string) (studysvc.StudyData, error)
	Delete(ctx context.Context, email, id string) error
}

// APIService is the JSON API over the signed-in user's study records.
type APIService struct {
	recorder     Recorder
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewAPIService(recorder Recorder, errorHandler handler.ErrorHandler[handler.Context]) *APIService {
	return &APIService{recorder: recorder, errorHandler: errorHandler}
}

// CreateRequest is the POST body in StudyData shape. ID and Email are
// accepted but ignored: the owner is always the signed-in user.
type CreateRequest struct {
	ID    string  `json:"id,omitempty"`
	Email string  `json:"email,omitempty"`
	Title string  `json:"title"`
	Time  float64 `json:"time"`
}

type recordRequest struct {
	ID string `path:"id"`
}

func (s *APIService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.list,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Post("/", handler.Wrap(s.create,
		handler.WithBinders[handler.Context, CreateRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, CreateRequest](s.errorHandler),
	))
	r.Get("/{id}", handler.Wrap(s.get,
		handler.WithBinders[handler.Context, recordRequest](pathID),
		handler.WithErrorHandler[handler.Context, recordRequest](s.errorHandler),
	))
	r.Delete("/{id}", handler.Wrap(s.delete,
		handler.WithBinders[handler.Context, recordRequest](pathID),
		handler.WithErrorHandler[handler.Context, recordRequest](s.errorHandler),
	))

	return r
}

func pathID(r *http.Request, v any) error {
	if req, ok := v.(*recordRequest); ok {
		req.ID = chi.URLParam(r, "id")
	}
	return nil
}

func (s *APIService) list(ctx handler.Context, _ struct{}) handler.Response {
	p := identity.PrincipalFromContext(ctx)
	if p == nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	records, err := s.recorder.List(ctx, p.Email)
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(records)
}

func (s *APIService) create(ctx handler.Context, req CreateRequest) handler.Response {
	p := identity.PrincipalFromContext(ctx)
	if p == nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	rec, err := s.recorder.Record(ctx, studysvc.StudyData{Email: p.Email, Title: req.Title, Time: req.Time})
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSONCreated(rec)
}

func (s *APIService) get(ctx handler.Context, req recordRequest) handler.Response {
	p := identity.PrincipalFromContext(ctx)
	if p == nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	rec, err := s.recorder.Get(ctx, p.Email, req.ID)
	if err != nil {
		return handler.JSONError(mapError(err))
	}
	return handler.JSON(rec)
}

func (s *APIService) delete(ctx handler.Context, req recordRequest) handler.Response {
	p := identity.PrincipalFromContext(ctx)
	if p == nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	if err := s.recorder.Delete(ctx, p.Email, req.ID); err != nil {
		return handler.JSONError(mapError(err))
	}
	return handler.JSON(map[string]string{"id": req.ID})
}

func mapError(err error) error {
	if errors.Is(err, studysvc.ErrNotFound) || errors.Is(err, studysvc.ErrInvalidID) {
		return handler.ErrNotFound
	}
	return err
}
