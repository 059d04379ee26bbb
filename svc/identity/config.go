package identity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	RecentLoginWindow time.Duration `env:"IDENTITY_RECENT_LOGIN_WINDOW" envDefault:"5m"`
	MinPasswordLength int           `env:"IDENTITY_MIN_PASSWORD_LENGTH" envDefault:"6"`
	BcryptCost        int           `env:"IDENTITY_BCRYPT_COST" envDefault:"10"`
	SessionTTL        time.Duration `env:"IDENTITY_SESSION_TTL" envDefault:"720h"`
}

func DefaultConfig() Config {
	return Config{
		RecentLoginWindow: 5 * time.Minute,
		MinPasswordLength: 6,
		BcryptCost:        bcrypt.DefaultCost,
		SessionTTL:        30 * 24 * time.Hour,
	}
}
