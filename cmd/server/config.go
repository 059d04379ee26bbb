package main

import (
	"time"

	"github.com/dmitrymomot/studylog/modules/account"
	"github.com/dmitrymomot/studylog/pkg/cookie"
	"github.com/dmitrymomot/studylog/pkg/httpserver"
	"github.com/dmitrymomot/studylog/pkg/mongo"
	"github.com/dmitrymomot/studylog/pkg/pg"
	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
	"github.com/dmitrymomot/studylog/pkg/redis"
	"github.com/dmitrymomot/studylog/pkg/session"
	"github.com/dmitrymomot/studylog/svc/identity"
)

// Config is the process configuration. Storage backends are optional: an
// empty connection URL selects the in-memory implementation.
type Config struct {
	AppName          string        `env:"APP_NAME" envDefault:"studylog"`
	AppEnv           string        `env:"APP_ENV" envDefault:"development"`
	ReadinessTimeout time.Duration `env:"READINESS_TIMEOUT" envDefault:"3s"`
	AuthChannel      string        `env:"AUTH_EVENTS_CHANNEL" envDefault:"studylog:auth"`
	StudyListLimit   int           `env:"STUDY_LIST_LIMIT" envDefault:"100"`

	TrustProxyHeaders bool               `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	SignInAttempts    int                `env:"SIGNIN_MAX_ATTEMPTS" envDefault:"5"`
	SignInRefill      time.Duration      `env:"SIGNIN_REFILL_INTERVAL" envDefault:"1m"`
	APIRate           ratelimiter.Config `envPrefix:"API_RATE_"`

	HTTP     httpserver.Config
	PG       pg.Config
	Redis    redis.Config
	Mongo    mongo.Config
	Cookie   cookie.Config
	Session  session.Config
	Identity identity.Config
	Account  account.Config
}
