package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

// Migrate applies the goose migrations found at the root of fsys.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, cfg Config, log *slog.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", logger.Error(err))
		}
	}()

	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{log: log.With(logger.Component("migrate"))})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(fmt.Sprintf(format, v...))
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(fmt.Sprintf(format, v...))
}
