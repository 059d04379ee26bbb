package account

import "time"

// Config configures the account module.
type Config struct {
	// RemoteTimeout bounds one password update, both provider calls included.
	RemoteTimeout time.Duration `env:"ACCOUNT_REMOTE_TIMEOUT" envDefault:"10s"`
	// HomePath is where a successful update lands.
	HomePath string `env:"ACCOUNT_HOME_PATH" envDefault:"/"`
	// LoginPath is where the watch stream sends signed-out visitors.
	LoginPath string `env:"ACCOUNT_LOGIN_PATH" envDefault:"/account/login"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		RemoteTimeout: 10 * time.Second,
		HomePath:      "/",
		LoginPath:     "/account/login",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RemoteTimeout <= 0 {
		c.RemoteTimeout = d.RemoteTimeout
	}
	if c.HomePath == "" {
		c.HomePath = d.HomePath
	}
	if c.LoginPath == "" {
		c.LoginPath = d.LoginPath
	}
	return c
}
