package session

import "time"

type Config struct {
	CookieName      string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	TouchInterval   time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		TTL:             30 * 24 * time.Hour,
		TouchInterval:   5 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}
