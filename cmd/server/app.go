package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/studylog/handler"
	"github.com/dmitrymomot/studylog/locales"
	"github.com/dmitrymomot/studylog/migrations"
	"github.com/dmitrymomot/studylog/modules/account"
	"github.com/dmitrymomot/studylog/modules/home"
	"github.com/dmitrymomot/studylog/modules/study"
	"github.com/dmitrymomot/studylog/pkg/broadcast"
	"github.com/dmitrymomot/studylog/pkg/clientip"
	"github.com/dmitrymomot/studylog/pkg/cookie"
	"github.com/dmitrymomot/studylog/pkg/environment"
	"github.com/dmitrymomot/studylog/pkg/httpserver"
	"github.com/dmitrymomot/studylog/pkg/i18n"
	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/mongo"
	"github.com/dmitrymomot/studylog/pkg/pg"
	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
	"github.com/dmitrymomot/studylog/pkg/redis"
	"github.com/dmitrymomot/studylog/pkg/requestid"
	"github.com/dmitrymomot/studylog/pkg/session"
	"github.com/dmitrymomot/studylog/svc/identity"
	studysvc "github.com/dmitrymomot/studylog/svc/study"
	"github.com/dmitrymomot/studylog/views"
)

// app holds the wired services and the resources that must be released on
// shutdown.
type app struct {
	cfg Config
	log *slog.Logger

	cookies    *cookie.Manager
	sessions   *session.Manager
	identity   *identity.LocalProvider
	translator *i18n.Translator
	views      *views.Views
	study      *studysvc.Service
	signIn     *ratelimiter.Bucket
	apiLimit   *ratelimiter.Bucket

	checks  map[string]httpserver.Check
	closers []func(context.Context) error
}

func newApp(ctx context.Context, cfg Config, log *slog.Logger) (_ *app, err error) {
	if log == nil {
		log = logger.Discard()
	}
	a := &app{cfg: cfg, log: log, checks: make(map[string]httpserver.Check)}
	defer func() {
		if err != nil {
			a.close(context.WithoutCancel(ctx), log)
		}
	}()

	if a.cookies, err = cookie.NewFromConfig(cfg.Cookie); err != nil {
		return nil, fmt.Errorf("cookies: %w", err)
	}

	a.translator, err = i18n.NewTranslator(ctx, i18n.NewFSAdapter(locales.FS, "."),
		i18n.WithDefaultLanguage(i18n.DefaultLanguage),
		i18n.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	a.views = views.New(a.translator.Tc)

	rdb, err := a.connectRedis(ctx)
	if err != nil {
		return nil, err
	}
	users, err := a.userStorage(ctx)
	if err != nil {
		return nil, err
	}
	studies, err := a.studyStorage(ctx)
	if err != nil {
		return nil, err
	}

	var (
		rateStore    ratelimiter.Store
		sessionStore session.Store
		states       identity.StateStore
		changes      broadcast.Broadcaster[identity.AuthStateChange]
	)
	if rdb != nil {
		rateStore = ratelimiter.NewRedisStore(rdb, "ratelimit")
		sessionStore = session.NewRedisStore(rdb)
		states = identity.NewRedisStateStore(rdb, cfg.Identity.SessionTTL)
		rb, err := broadcast.NewRedisBroadcaster[identity.AuthStateChange](ctx, rdb, cfg.AuthChannel, 16, log)
		if err != nil {
			return nil, fmt.Errorf("auth events: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rb.Close() })
		changes = rb
	} else {
		buckets := ratelimiter.NewMemoryStore()
		a.closers = append(a.closers, func(context.Context) error { return buckets.Close() })
		rateStore = buckets
		mem := session.NewMemoryStore(cfg.Session.CleanupInterval)
		a.closers = append(a.closers, func(context.Context) error { return mem.Close() })
		sessionStore = mem
		states = identity.NewMemoryStateStore()
	}

	a.signIn, err = ratelimiter.NewBucket(rateStore, ratelimiter.Config{
		Capacity:       cfg.SignInAttempts,
		RefillRate:     1,
		RefillInterval: cfg.SignInRefill,
	})
	if err != nil {
		return nil, fmt.Errorf("sign-in limiter: %w", err)
	}
	if a.apiLimit, err = ratelimiter.NewBucket(rateStore, cfg.APIRate); err != nil {
		return nil, fmt.Errorf("api limiter: %w", err)
	}

	a.sessions = session.New(a.cookies,
		session.WithStore(sessionStore),
		session.WithConfig(cfg.Session),
		session.WithLogger(log),
	)
	a.identity = identity.NewLocalProvider(users, states,
		identity.WithConfig(cfg.Identity),
		identity.WithLogger(log),
		identity.WithBroadcaster(changes),
	)
	a.study = studysvc.NewService(studies,
		studysvc.WithLogger(log),
		studysvc.WithListLimit(cfg.StudyListLimit),
	)
	return a, nil
}

func (a *app) connectRedis(ctx context.Context) (*goredis.Client, error) {
	if !a.cfg.Redis.Enabled() {
		a.log.InfoContext(ctx, "redis not configured, sessions and auth state stay in memory")
		return nil, nil
	}
	rdb, err := redis.Connect(ctx, a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	a.checks["redis"] = redis.Healthcheck(rdb)
	return rdb, nil
}

func (a *app) userStorage(ctx context.Context) (identity.Storage, error) {
	if !a.cfg.PG.Enabled() {
		a.log.InfoContext(ctx, "postgres not configured, users stay in memory")
		return identity.NewMemoryStorage(), nil
	}
	pool, err := pg.Connect(ctx, a.cfg.PG)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
	if err := pg.Migrate(ctx, pool, migrations.FS, a.cfg.PG, a.log); err != nil {
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}
	a.checks["postgres"] = pg.Healthcheck(pool)
	return identity.NewPostgresStorage(pool), nil
}

func (a *app) studyStorage(ctx context.Context) (studysvc.Storage, error) {
	if !a.cfg.Mongo.Enabled() {
		a.log.InfoContext(ctx, "mongodb not configured, study records stay in memory")
		return studysvc.NewMemoryStorage(), nil
	}
	client, err := mongo.New(ctx, a.cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("mongodb: %w", err)
	}
	a.closers = append(a.closers, func(ctx context.Context) error { return client.Disconnect(ctx) })
	storage := studysvc.NewMongoStorage(client.Database(a.cfg.Mongo.Database))
	if err := storage.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongodb indexes: %w", err)
	}
	a.checks["mongodb"] = mongo.Healthcheck(client)
	return storage, nil
}

func (a *app) translate(ctx context.Context, key string) string {
	return a.translator.Tc(ctx, key)
}

func (a *app) routes() http.Handler {
	pageErrors := handler.NewErrorHandler(a.log, handler.ErrorHandlerConfig{
		ErrorPage: a.views.ErrorPage,
		Toast:     a.views.Toast,
		Translate: a.translate,
	})
	jsonErrors := handler.NewJSONErrorHandler(a.log)

	updater := account.NewPasswordUpdater(a.identity,
		account.WithUpdaterConfig(a.cfg.Account),
		account.WithTranslate(a.translator.Tc),
		account.WithUpdaterLogger(a.log),
	)

	passwordSvc := account.NewPasswordService(a.cfg.Account, a.identity, updater, a.cookies, a.views.Password(), pageErrors, a.log)
	authSvc := account.NewAuthService(a.cfg.Account, a.identity, a.sessions, a.translator.Tc, a.cookies, a.views.Auth(), pageErrors, a.log,
		account.WithSignInLimiter(a.signIn),
	)

	var proxyHeaders []string
	if a.cfg.TrustProxyHeaders {
		proxyHeaders = clientip.ProxyHeaders
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		clientip.New(proxyHeaders...).Middleware,
		environment.Middleware(environment.Parse(a.cfg.AppEnv)),
		i18n.Middleware(i18n.NewNegotiator(a.translator.SupportedLanguages()...).Extractor(), i18n.DefaultLanguage),
	)

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(a.log, a.cfg.ReadinessTimeout, a.checks))

	r.Group(func(r chi.Router) {
		r.Use(
			a.sessions.Middleware,
			identity.Middleware(a.identity, session.IDFromContext, a.log),
		)

		r.Mount("/account", account.Router(account.RouterOptions{
			Password: passwordSvc,
			Auth:     authSvc,
		}))
		r.With(ratelimiter.Middleware(a.apiLimit, apiRateKey, jsonStatus(handler.ErrTooManyRequests), jsonStatus(handler.ErrServiceUnavailable))).
			Mount("/api/study", study.NewAPIService(a.study, jsonErrors).Handle())
		r.Mount("/", home.NewService(a.views.Home, a.cookies, pageErrors).Handle())
	})

	return r
}

// apiRateKey buckets API calls per principal, falling back to the client IP.
func apiRateKey(r *http.Request) string {
	if p := identity.PrincipalFromContext(r.Context()); p != nil {
		return ratelimiter.Key("api", p.ID.String())
	}
	return ratelimiter.Key("api", clientip.FromContext(r.Context()))
}

func jsonStatus(err handler.HTTPError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSONError(err).Render(w, r)
	}
}

// close releases resources in reverse acquisition order.
func (a *app) close(ctx context.Context, log *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.ErrorContext(ctx, "failed to release resource", logger.Error(err))
		}
	}
	a.closers = nil
}
