package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	startHooks      []Hook
	stopHooks       []Hook
}

// Server runs an http.Server until its context is cancelled or the process
// receives SIGINT/SIGTERM, then shuts it down gracefully.
type Server struct {
	cfg  *config
	mu   sync.Mutex
	srv  *http.Server
	once sync.Once
}

func New(opts ...Option) *Server {
	cfg := &config{
		addr:            ":8080",
		readTimeout:     15 * time.Second,
		idleTimeout:     120 * time.Second,
		shutdownTimeout: 10 * time.Second,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Server{cfg: cfg}
}

// Run serves handler and blocks until shutdown. Listen failures are wrapped
// with ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrRunning)
	}
	srv := &http.Server{
		Addr:        s.cfg.addr,
		Handler:     handler,
		ReadTimeout: s.cfg.readTimeout,
		IdleTimeout: s.cfg.idleTimeout,
	}
	s.srv = srv
	s.mu.Unlock()

	log := s.cfg.logger.With(logger.Component("httpserver"))
	for _, h := range s.cfg.startHooks {
		h(ctx, log)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.InfoContext(ctx, "http server started", slog.String("addr", s.cfg.addr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.WithoutCancel(ctx))
		runErr = <-errCh
	case sig := <-stop:
		log.InfoContext(ctx, "shutdown signal received", slog.String("signal", sig.String()))
		_ = s.Shutdown(context.WithoutCancel(ctx))
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		log.ErrorContext(ctx, "http server failed", logger.Error(runErr))
		return errors.Join(ErrStart, runErr)
	}
	log.InfoContext(ctx, "http server stopped")
	return nil
}

// Shutdown stops the server gracefully. Repeated calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
		for _, h := range s.cfg.stopHooks {
			h(ctx, s.cfg.logger)
		}
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
