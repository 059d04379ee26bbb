package redis

import "time"

// Config configures the go-redis client. An empty ConnectionURL disables
// Redis.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
