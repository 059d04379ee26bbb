package cookie

import "strings"

// Config is the env-driven cookie configuration. Secrets is a
// comma-separated list, newest first.
type Config struct {
	Secrets string `env:"COOKIE_SECRETS"`
	Domain  string `env:"COOKIE_DOMAIN"`
	Secure  bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

func (c Config) secrets() []string {
	var out []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := make([]Option, 0, 2+len(opts))
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.Secure {
		configOpts = append(configOpts, WithSecure(true))
	}
	return New(cfg.secrets(), append(configOpts, opts...)...)
}
