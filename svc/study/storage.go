package study

import "context"

// Storage persists study records. Implementations assign ID and CreatedAt
// on Create.
type Storage interface {
	Create(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	// ListByEmail returns the newest records first, at most limit of them.
	ListByEmail(ctx context.Context, email string, limit int) ([]Record, error)
	Delete(ctx context.Context, id string) error
}
