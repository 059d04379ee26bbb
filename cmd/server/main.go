// Command server runs the studylog web application.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/studylog/pkg/clientip"
	"github.com/dmitrymomot/studylog/pkg/config"
	"github.com/dmitrymomot/studylog/pkg/environment"
	"github.com/dmitrymomot/studylog/pkg/httpserver"
	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/requestid"
	"github.com/dmitrymomot/studylog/svc/identity"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
			identity.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	ctx := context.Background()
	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", logger.Error(err))
		os.Exit(1)
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(ctx context.Context, l *slog.Logger) {
			app.close(ctx, l)
		}),
	)
	if err := srv.Run(ctx, app.routes()); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
