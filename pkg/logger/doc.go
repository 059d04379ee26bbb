// Package logger builds slog loggers with per-environment defaults and
// context-aware attribute injection.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "studylog"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "password updated", logger.UserID(p.ID), logger.Component("account"))
package logger
