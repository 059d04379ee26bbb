package mongo

import "time"

// Config configures the MongoDB client. An empty ConnectionURL disables
// MongoDB.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL"`
	Database        string        `env:"MONGODB_DATABASE" envDefault:"studylog"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"50"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`
}

func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
