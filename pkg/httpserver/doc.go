// Package httpserver runs an http.Server with graceful shutdown, life-cycle
// hooks and liveness/readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(ctx context.Context, _ *slog.Logger) { pool.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run wraps listen errors with ErrStart and Shutdown wraps shutdown errors with
// ErrShutdown.
package httpserver
