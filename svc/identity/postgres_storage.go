package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/studylog/pkg/pg"
)

// DB is the subset of *pgxpool.Pool used by PostgresStorage.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage stores users in the users table created by the
// migrations package.
type PostgresStorage struct {
	db DB
}

func NewPostgresStorage(db DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const (
	insertUserSQL = `INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	userByEmail   = `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`
	userByID      = `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
	updateHashSQL = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
)

func (s *PostgresStorage) CreateUser(ctx context.Context, u User, hash []byte) error {
	if _, err := s.db.Exec(ctx, insertUserSQL, u.ID, u.Email, hash, u.CreatedAt); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (User, []byte, error) {
	return s.getUser(ctx, userByEmail, email)
}

func (s *PostgresStorage) GetUserByID(ctx context.Context, id uuid.UUID) (User, []byte, error) {
	return s.getUser(ctx, userByID, id)
}

func (s *PostgresStorage) getUser(ctx context.Context, query string, arg any) (User, []byte, error) {
	var (
		u    User
		hash []byte
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &hash, &u.CreatedAt)
	if pg.IsNotFoundError(err) {
		return User{}, nil, ErrUserNotFound
	}
	if err != nil {
		return User{}, nil, fmt.Errorf("select user: %w", err)
	}
	return u, hash, nil
}

func (s *PostgresStorage) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	tag, err := s.db.Exec(ctx, updateHashSQL, id, hash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
