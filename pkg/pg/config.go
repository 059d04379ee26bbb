package pg

import "time"

// Config configures the pgx pool. An empty ConnectionString disables
// Postgres and the application falls back to in-memory storage.
type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL"`
	MaxConns          int32         `env:"PG_MAX_CONNS" envDefault:"10"`
	MinConns          int32         `env:"PG_MIN_CONNS" envDefault:"2"`
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"2s"`

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}

// Enabled reports whether a connection string was configured.
func (c Config) Enabled() bool {
	return c.ConnectionString != ""
}
