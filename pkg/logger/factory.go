package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrymomot/studylog/pkg/environment"
)

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures logger creation.
type Option func(*config)

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets output format. It panics on unknown formats so a
// misconfigured process fails at startup.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the destination writer. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithContextExtractors registers functions that inject request-scoped
// attributes (request id, session id) from the logging context.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithEnvironment applies per-environment defaults: text/debug for
// development, json/info for staging and production.
func WithEnvironment(env, service string) Option {
	return func(c *config) {
		e := environment.Parse(env)
		switch e {
		case environment.Production, environment.Staging:
			c.level = slog.LevelInfo
			c.format = FormatJSON
		default:
			c.level = slog.LevelDebug
			c.format = FormatText
		}
		if service != "" {
			c.attrs = append(c.attrs, slog.String("service", service))
		}
		c.attrs = append(c.attrs, slog.String("env", string(e)))
	}
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func defaultConfig() *config {
	return &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
}

// New creates a configured slog.Logger wrapped with the context decorator.
func New(opts ...Option) *slog.Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}

	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}

	return slog.New(NewContextHandler(handler, cfg.extractors...))
}

// Discard returns a logger that drops every record. Components use it
// when no logger was injected.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
