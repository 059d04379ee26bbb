// Package pg wraps pgx/v5 pool setup, goose migrations and error
// classification.
//
//	pool, err := pg.Connect(ctx, cfg.Postgres)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
//		return err
//	}
package pg
