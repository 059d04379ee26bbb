package study

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/validator"
)

const (
	DefaultListLimit = 100
	maxTitleLength   = 200
)

// Service validates study records and scopes them to their owner's email.
type Service struct {
	storage   Storage
	log       *slog.Logger
	listLimit int
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithListLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.listLimit = n
		}
	}
}

func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage:   storage,
		log:       logger.Discard(),
		listLimit: DefaultListLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("study"))
	return s
}

// Validate reports every invalid field of d as validator.ValidationErrors.
func Validate(d StudyData) error {
	return validator.Apply(
		validator.ValidEmail("email", d.Email),
		validator.Required("title", d.Title),
		validator.MaxChars("title", d.Title, maxTitleLength),
		validator.MinNum("time", d.Time, 0),
	)
}

// Record stores a new record. Any ID on d is ignored.
func (s *Service) Record(ctx context.Context, d StudyData) (StudyData, error) {
	d = d.normalized()
	if err := Validate(d); err != nil {
		return StudyData{}, err
	}

	rec, err := s.storage.Create(ctx, Record{StudyData: d})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to store study record", logger.Email(d.Email), logger.Error(err))
		return StudyData{}, err
	}
	return rec.StudyData, nil
}

// List returns the owner's records, newest first.
func (s *Service) List(ctx context.Context, email string) ([]StudyData, error) {
	recs, err := s.storage.ListByEmail(ctx, StudyData{Email: email}.normalized().Email, s.listLimit)
	if err != nil {
		return nil, err
	}
	out := make([]StudyData, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.StudyData)
	}
	return out, nil
}

// Get returns ErrNotFound for records owned by someone else.
func (s *Service) Get(ctx context.Context, email, id string) (StudyData, error) {
	rec, err := s.owned(ctx, email, id)
	if err != nil {
		return StudyData{}, err
	}
	return rec.StudyData, nil
}

func (s *Service) Delete(ctx context.Context, email, id string) error {
	if _, err := s.owned(ctx, email, id); err != nil {
		return err
	}
	return s.storage.Delete(ctx, id)
}

func (s *Service) owned(ctx context.Context, email, id string) (Record, error) {
	rec, err := s.storage.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Email != (StudyData{Email: email}).normalized().Email {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
